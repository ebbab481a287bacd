package models

import (
	"time"

	"gorm.io/gorm"
)

// Referral is one buyer lead forwarded to a partner. Expected commission is
// frozen at creation using the offer fee at that time; realized commission is
// frozen at the WON transition using the offer fee as configured then.
type Referral struct {
	ID                       uint           `gorm:"primarykey" json:"id"`
	OfferID                  uint           `gorm:"not null;index" json:"offer_id"`
	PartnerID                uint           `gorm:"not null;index" json:"partner_id"`
	BuyerName                string         `gorm:"type:varchar(120);not null" json:"buyer_name"`
	BuyerCompany             string         `gorm:"type:varchar(200)" json:"buyer_company"`
	BuyerEmail               string         `gorm:"type:varchar(200);index" json:"buyer_email"`
	BuyerPhone               string         `gorm:"type:varchar(40)" json:"buyer_phone"`
	Status                   string         `gorm:"type:varchar(20);not null;index" json:"status"`
	ExpectedValue            int64          `gorm:"not null;default:0" json:"expected_value"`
	WonValue                 *int64         `json:"won_value,omitempty"` // set only on WON
	SuccessFeePercentAtSent  int            `gorm:"not null;default:0" json:"success_fee_percent_at_sent"`
	SuccessFeeExpected       int64          `gorm:"not null;default:0" json:"success_fee_expected"`
	SuccessFeePercentAtWon   *int           `json:"success_fee_percent_at_won,omitempty"`
	SuccessFeeRealized       *int64         `json:"success_fee_realized,omitempty"`
	AckDeadline              time.Time      `gorm:"index;not null" json:"ack_deadline"`
	InternalNotes            string         `gorm:"type:text" json:"internal_notes"`
	LastStatusUpdate         time.Time      `gorm:"index;not null" json:"last_status_update"`
	Version                  int            `gorm:"not null;default:1" json:"version"` // optimistic concurrency token
	CreatedAt                time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt                time.Time      `json:"updated_at"`
	DeletedAt                gorm.DeletedAt `gorm:"index" json:"-"`

	Offer   Offer   `gorm:"foreignKey:OfferID" json:"offer,omitempty"`
	Partner Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
}

// TableName names the table.
func (Referral) TableName() string {
	return "referrals"
}
