package models

import (
	"time"

	"gorm.io/gorm"
)

// ContractDeclaration is a buyer's statement of a closed contract with a
// partner, reviewed by admins. An approved declaration gates review
// eligibility for that partner.
type ContractDeclaration struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	OfferID        uint           `gorm:"not null;index" json:"offer_id"`
	PartnerID      uint           `gorm:"not null;index" json:"partner_id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	ContractDate   time.Time      `gorm:"not null" json:"contract_date"`
	ContractValue  int64          `gorm:"not null;default:0" json:"contract_value"`
	ContractPeriod string         `gorm:"type:varchar(60)" json:"contract_period"`
	Comments       string         `gorm:"type:text" json:"comments"`
	Status         string         `gorm:"type:varchar(20);not null;index" json:"status"`
	ReviewedBy     *uint          `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Offer   Offer   `gorm:"foreignKey:OfferID" json:"offer,omitempty"`
	Partner Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
}

// TableName names the table.
func (ContractDeclaration) TableName() string {
	return "contract_declarations"
}
