package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a buyer rating for a partner. Reviews are immutable after
// creation; aggregates (average, count) are computed per partner.
type Review struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	PartnerID       uint           `gorm:"not null;index" json:"partner_id"`
	UserID          uint           `gorm:"index" json:"user_id"`
	ReviewerName    string         `gorm:"type:varchar(120);not null" json:"reviewer_name"`
	ReviewerCompany string         `gorm:"type:varchar(200)" json:"reviewer_company"`
	Rating          int            `gorm:"not null" json:"rating"` // 1..5
	Comment         string         `gorm:"type:text" json:"comment"`
	IsVerified      bool           `gorm:"default:false" json:"is_verified"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName names the table.
func (Review) TableName() string {
	return "reviews"
}
