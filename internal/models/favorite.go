package models

import "time"

// Favorite is a buyer's saved offer.
type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_favorites_user_offer,unique" json:"user_id"`
	OfferID   uint      `gorm:"not null;index:idx_favorites_user_offer,unique" json:"offer_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Offer Offer `gorm:"foreignKey:OfferID" json:"offer,omitempty"`
}

// TableName names the table.
func (Favorite) TableName() string {
	return "favorites"
}
