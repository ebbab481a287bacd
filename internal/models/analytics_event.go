package models

import "time"

// AnalyticsEvent is a tracked UI event (offer view, profile view, lead
// submit). Rows are append-only.
type AnalyticsEvent struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	EventType  string    `gorm:"type:varchar(40);not null;index" json:"event_type"`
	PartnerID  uint      `gorm:"index" json:"partner_id"`
	OfferID    uint      `gorm:"index" json:"offer_id"`
	UserID     uint      `gorm:"index" json:"user_id"`
	VisitorKey string    `gorm:"type:varchar(64);index" json:"visitor_key"`
	Metadata   JSON      `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName names the table.
func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}
