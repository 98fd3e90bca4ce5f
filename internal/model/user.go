package model

import "time"

// 用户角色
const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleEmployee = "employee"
)

// User 登录账号表 — 对应 users
type User struct {
	UserID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string     `gorm:"type:varchar(20);not null;default:'employee'"   json:"role"` // admin | hr | employee
	IsActive     bool       `gorm:"not null;default:true"                          json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	BaseModel

	// 关联
	Employee *Employee `gorm:"foreignKey:UserID;references:UserID" json:"employee,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
