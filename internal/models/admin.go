package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin is a console account (admin or gerente, distinguished by RBAC roles).
type Admin struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(60);uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(200);not null" json:"-"`
	DisplayName  string         `gorm:"type:varchar(120)" json:"display_name"`
	IsSuper      bool           `gorm:"default:false" json:"is_super"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName names the table.
func (Admin) TableName() string {
	return "admins"
}
