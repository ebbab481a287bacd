package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a marketplace account: a buyer, or a partner operator provisioned
// when the partner's curation is approved.
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(200);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(200);not null" json:"-"`
	DisplayName  string         `gorm:"type:varchar(120)" json:"display_name"`
	Company      string         `gorm:"type:varchar(200)" json:"company"`
	Role         string         `gorm:"type:varchar(20);not null;index" json:"role"` // buyer / partner
	PartnerID    *uint          `gorm:"index" json:"partner_id,omitempty"`           // set for partner operators
	Status       string         `gorm:"type:varchar(20);not null;index" json:"status"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName names the table.
func (User) TableName() string {
	return "users"
}
