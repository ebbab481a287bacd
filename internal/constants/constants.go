package constants

// Referral status values
const (
	ReferralStatusSent          = "SENT"
	ReferralStatusAcked         = "ACKED"
	ReferralStatusInNegotiation = "IN_NEGOTIATION"
	ReferralStatusWon           = "WON"
	ReferralStatusLost          = "LOST"
	ReferralStatusOverdue       = "OVERDUE"
)

// Offer type values
const (
	OfferTypeDigital         = "DIGITAL"
	OfferTypeServiceStandard = "SERVICE_STANDARD"
	OfferTypeServiceComplex  = "SERVICE_COMPLEX"
	OfferTypeLicense         = "LICENSE"
)

// Sale mode values
const (
	SaleModeCheckout = "CHECKOUT"
	SaleModeLeadForm = "LEAD_FORM"
)

// Billing period values
const (
	BillingPeriodMonthly   = "MONTHLY"
	BillingPeriodQuarterly = "QUARTERLY"
	BillingPeriodAnnual    = "ANNUAL"
)

// Partner curation status values
const (
	CurationStatusPending  = "PENDING"
	CurationStatusApproved = "APPROVED"
	CurationStatusRejected = "REJECTED"
)

// Partner tier values
const (
	PartnerTierStandard = "STANDARD"
	PartnerTierPremium  = "PREMIUM"
)

// Contract declaration status values
const (
	ContractStatusPending  = "PENDING"
	ContractStatusApproved = "APPROVED"
	ContractStatusRejected = "REJECTED"
)

// Lead request status values
const (
	LeadRequestStatusOpen      = "open"
	LeadRequestStatusConverted = "converted"
	LeadRequestStatusDiscarded = "discarded"
)

// User account role values
const (
	UserRoleBuyer   = "buyer"
	UserRolePartner = "partner"
)

// User account status values
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// Analytics event type values
const (
	AnalyticsEventOfferView      = "offer_view"
	AnalyticsEventProfileView    = "profile_view"
	AnalyticsEventLeadSubmit     = "lead_submit"
	AnalyticsEventFavoriteToggle = "favorite_toggle"
)

// Asynq task type names
const (
	TaskReferralNotifyEmail   = "referral:notify_email"
	TaskPartnerProvisionUser  = "partner:provision_user"
	TaskCurationNotifyEmail   = "partner:curation_email"
	TaskAnalyticsReportExport = "analytics:report_export"
)

// Queue names
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)
