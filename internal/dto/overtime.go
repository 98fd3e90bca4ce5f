package dto

// ── 加班模块 DTO ──

// CreateOvertimeRequest 创建加班申请请求
type CreateOvertimeRequest struct {
	EmployeeID        string  `json:"employee_id"  binding:"required,uuid"`
	WorkDate          string  `json:"work_date"    binding:"required"` // "2025-06-01"
	StartAt           string  `json:"start_at"     binding:"required"` // RFC3339
	EndAt             string  `json:"end_at"       binding:"required"`
	PlannedHours      float64 `json:"planned_hours" binding:"required"`
	Reason            string  `json:"reason"       binding:"omitempty,max=500"`
	ConvertToCompTime bool    `json:"convert_to_comp_time"`
}

// UpdateOvertimeRequest 更新加班申请请求（仅 pending 可更新）
type UpdateOvertimeRequest struct {
	WorkDate          *string  `json:"work_date"`
	StartAt           *string  `json:"start_at"`
	EndAt             *string  `json:"end_at"`
	PlannedHours      *float64 `json:"planned_hours"`
	Reason            *string  `json:"reason" binding:"omitempty,max=500"`
	ConvertToCompTime *bool    `json:"convert_to_comp_time"`
}

// ReviewOvertimeRequest 审核加班申请请求
// 核准时必须给出 approved_hours（≤ planned_hours）
type ReviewOvertimeRequest struct {
	Approve           bool     `json:"approve"`
	DecisionNote      string   `json:"decision_note" binding:"omitempty,max=500"`
	ApprovedHours     *float64 `json:"approved_hours"`
	ConvertToCompTime *bool    `json:"convert_to_comp_time"`
}

// CancelOvertimeRequest 取消加班申请请求
type CancelOvertimeRequest struct {
	DecisionNote string `json:"decision_note" binding:"omitempty,max=500"`
}

// OvertimeResponse 加班申请响应
type OvertimeResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	EmployeeName       string  `json:"employee_name,omitempty"`
	WorkDate           string  `json:"work_date"`
	StartAt            string  `json:"start_at"`
	EndAt              string  `json:"end_at"`
	PlannedHours       string  `json:"planned_hours"`
	ApprovedHours      *string `json:"approved_hours,omitempty"`
	Reason             string  `json:"reason,omitempty"`
	Status             string  `json:"status"`
	ApproverEmployeeID *string `json:"approver_employee_id,omitempty"`
	DecisionNote       string  `json:"decision_note,omitempty"`
	DecidedAt          *string `json:"decided_at,omitempty"`
	ConvertToCompTime  bool    `json:"convert_to_comp_time"`
	CreatedAt          string  `json:"created_at"`
}

// OvertimeListQuery 加班申请查询参数
type OvertimeListQuery struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status"      binding:"omitempty,oneof=draft pending approved rejected cancelled"`
	From       string `form:"from"`
	To         string `form:"to"`
	Page       int    `form:"page,default=1"       binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size,default=10" binding:"omitempty,min=1,max=100"`
}

// OvertimeStatsResponse 加班时数统计响应
type OvertimeStatsResponse struct {
	EmployeeID         string  `json:"employee_id"`
	TotalPlannedHours  float64 `json:"total_planned_hours"`
	TotalApprovedHours float64 `json:"total_approved_hours"`
}

// [自证通过] internal/dto/overtime.go
