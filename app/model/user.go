package model

import (
	"time"

	"gorm.io/gorm"
)

// User 后台用户，staff 或管理员可以管理系统设置
type User struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Username  string         `json:"username" gorm:"uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"not null"` // json:"-" 确保密码不会被序列化
	Email     string         `json:"email"`
	IsActive  bool           `json:"is_active"`
	IsStaff   bool           `json:"is_staff"`
	IsAdmin   bool           `json:"is_admin"`
	LastLogin *time.Time     `json:"last_login"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// Identity 操作人标识
func (u *User) Identity() string {
	return u.Username
}

// Active 账号是否启用
func (u *User) Active() bool {
	return u.IsActive
}

// Privileged 是否为 staff 或管理员
func (u *User) Privileged() bool {
	return u.IsStaff || u.IsAdmin
}
