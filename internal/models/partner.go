package models

import (
	"time"

	"gorm.io/gorm"
)

// Partner is a solution vendor on the marketplace. Only APPROVED partners
// have their offers publicly listed.
type Partner struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Slug           string         `gorm:"uniqueIndex;not null" json:"slug"`
	CompanyName    string         `gorm:"type:varchar(200);not null" json:"company_name"`
	LegalName      string         `gorm:"type:varchar(200)" json:"legal_name"`
	CNPJ           string         `gorm:"type:varchar(18);uniqueIndex;not null" json:"cnpj"`
	CurationStatus string         `gorm:"type:varchar(20);not null;index" json:"curation_status"`
	Tier           string         `gorm:"type:varchar(20);not null;index" json:"tier"`
	ContactName    string         `gorm:"type:varchar(120)" json:"contact_name"`
	ContactEmail   string         `gorm:"type:varchar(200);index" json:"contact_email"`
	ContactPhone   string         `gorm:"type:varchar(40)" json:"contact_phone"`
	Website        string         `gorm:"type:varchar(300)" json:"website"`
	About          string         `gorm:"type:text" json:"about"`
	CNAEPrincipal  string         `gorm:"type:varchar(20)" json:"cnae_principal"`
	CNAESecundario StringArray    `gorm:"type:json" json:"cnae_secundario"`
	Version        int            `gorm:"not null;default:1" json:"version"` // optimistic concurrency token
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Offers []Offer       `gorm:"foreignKey:PartnerID" json:"offers,omitempty"`
	Cases  []PartnerCase `gorm:"foreignKey:PartnerID" json:"cases,omitempty"`
}

// TableName names the table.
func (Partner) TableName() string {
	return "partners"
}
