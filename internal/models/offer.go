package models

import (
	"time"

	"gorm.io/gorm"
)

// Offer is a partner solution listed in the catalog. Monetary columns are
// int64 minor currency units (centavos); percent columns are integers 0-100.
type Offer struct {
	ID                  uint           `gorm:"primarykey" json:"id"`
	Slug                string         `gorm:"uniqueIndex;not null" json:"slug"`
	Title               string         `gorm:"type:varchar(200);not null" json:"title"`
	Description         string         `gorm:"type:text" json:"description"`
	PartnerID           uint           `gorm:"not null;index" json:"partner_id"`
	CategoryID          uint           `gorm:"index" json:"category_id"`
	OfferType           string         `gorm:"type:varchar(30);not null;index" json:"offer_type"`
	SaleMode            string         `gorm:"type:varchar(20);not null;index" json:"sale_mode"`
	Price               *int64         `json:"price,omitempty"`
	PriceMonthly        *int64         `json:"price_monthly,omitempty"`
	PriceQuarterly      *int64         `json:"price_quarterly,omitempty"`
	PriceAnnual         *int64         `json:"price_annual,omitempty"`
	BillingPeriods      StringArray    `gorm:"type:json" json:"billing_periods"`
	Deliverables        JSONArray      `gorm:"type:json" json:"deliverables"`
	FAQ                 JSONArray      `gorm:"type:json" json:"faq"`
	SuccessFeePercent   int            `gorm:"not null;default:0" json:"success_fee_percent"`
	ZopuTakeRatePercent *int           `json:"zopu_take_rate_percent,omitempty"`
	PartnerSharePercent *int           `json:"partner_share_percent,omitempty"`
	IsActive            bool           `gorm:"default:true;index" json:"is_active"`
	Version             int            `gorm:"not null;default:1" json:"version"` // optimistic concurrency token
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	Partner  Partner        `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	Category Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Variants []OfferVariant `gorm:"foreignKey:OfferID" json:"variants,omitempty"`
}

// TableName names the table.
func (Offer) TableName() string {
	return "offers"
}

// OfferVariant is a priced plan inside an offer (ordered by SortOrder).
type OfferVariant struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	OfferID        uint           `gorm:"not null;index" json:"offer_id"`
	Name           string         `gorm:"type:varchar(100);not null" json:"name"`
	UserLimit      int            `gorm:"not null;default:0" json:"user_limit"`
	PriceMonthly   *int64         `json:"price_monthly,omitempty"`
	PriceQuarterly *int64         `json:"price_quarterly,omitempty"`
	PriceAnnual    *int64         `json:"price_annual,omitempty"`
	SortOrder      int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName names the table.
func (OfferVariant) TableName() string {
	return "offer_variants"
}
