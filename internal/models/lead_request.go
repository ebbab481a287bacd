package models

import (
	"time"

	"gorm.io/gorm"
)

// LeadRequest is a public lead-form submission for a LEAD_FORM offer. Admins
// convert open requests into referrals.
type LeadRequest struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	OfferID      uint           `gorm:"not null;index" json:"offer_id"`
	PartnerID    uint           `gorm:"not null;index" json:"partner_id"`
	Name         string         `gorm:"type:varchar(120);not null" json:"name"`
	Company      string         `gorm:"type:varchar(200)" json:"company"`
	Email        string         `gorm:"type:varchar(200);not null;index" json:"email"`
	Phone        string         `gorm:"type:varchar(40)" json:"phone"`
	Message      string         `gorm:"type:text" json:"message"`
	Status       string         `gorm:"type:varchar(20);not null;index" json:"status"`
	ReferralID   *uint          `gorm:"index" json:"referral_id,omitempty"` // set on conversion
	ClientIP     string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Offer Offer `gorm:"foreignKey:OfferID" json:"offer,omitempty"`
}

// TableName names the table.
func (LeadRequest) TableName() string {
	return "lead_requests"
}
