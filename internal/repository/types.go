package repository

import "time"

// OfferListFilter filters offer list queries.
type OfferListFilter struct {
	Page         int
	PageSize     int
	PartnerID    uint
	CategoryID   uint
	OfferType    string
	SaleMode     string
	Search       string
	OnlyActive   bool
	OnlyApproved bool // restrict to offers of APPROVED partners
	WithPartner  bool
}

// PartnerListFilter filters partner list queries.
type PartnerListFilter struct {
	Page           int
	PageSize       int
	CurationStatus string
	Tier           string
	Search         string
}

// ReferralListFilter filters referral list queries.
type ReferralListFilter struct {
	Page        int
	PageSize    int
	PartnerID   uint
	OfferID     uint
	Status      string
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ContractListFilter filters contract declaration list queries.
type ContractListFilter struct {
	Page      int
	PageSize  int
	PartnerID uint
	UserID    uint
	Status    string
}

// ReviewListFilter filters review list queries.
type ReviewListFilter struct {
	Page      int
	PageSize  int
	PartnerID uint
	MinRating int
}

// PartnerCaseListFilter filters partner case list queries.
type PartnerCaseListFilter struct {
	Page          int
	PageSize      int
	PartnerID     uint
	OnlyPublished bool
}

// LeadRequestListFilter filters lead request list queries.
type LeadRequestListFilter struct {
	Page      int
	PageSize  int
	PartnerID uint
	OfferID   uint
	Status    string
}

// AdminListFilter filters console account list queries.
type AdminListFilter struct {
	Page     int
	PageSize int
	Keyword  string
}

// UserListFilter filters marketplace account list queries.
type UserListFilter struct {
	Page     int
	PageSize int
	Role     string
	Status   string
	Keyword  string
}

// AnalyticsEventFilter filters analytics event queries.
type AnalyticsEventFilter struct {
	Page        int
	PageSize    int
	EventType   string
	PartnerID   uint
	OfferID     uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
