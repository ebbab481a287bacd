package models

import (
	"time"

	"gorm.io/gorm"
)

// PartnerCase is a success-case entry shown on a partner profile, managed by
// admins.
type PartnerCase struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	PartnerID   uint           `gorm:"not null;index" json:"partner_id"`
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	ClientName  string         `gorm:"type:varchar(200)" json:"client_name"`
	Segment     string         `gorm:"type:varchar(120)" json:"segment"`
	Summary     string         `gorm:"type:text" json:"summary"`
	Results     JSONArray      `gorm:"type:json" json:"results"`
	IsPublished bool           `gorm:"default:true;index" json:"is_published"`
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName names the table.
func (PartnerCase) TableName() string {
	return "partner_cases"
}
