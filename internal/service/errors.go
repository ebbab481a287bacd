package service

import "errors"

// Sentinel errors shared across services. Handlers map these onto HTTP
// status codes.
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrForbidden          = errors.New("operation not allowed for this account")

	ErrValidation        = errors.New("validation failed")
	ErrVersionConflict   = errors.New("record changed concurrently, reload and retry")
	ErrInvalidTransition = errors.New("status transition not allowed")

	ErrCNPJInvalid      = errors.New("cnpj is invalid")
	ErrCNPJTaken        = errors.New("cnpj already registered")
	ErrEmailTaken       = errors.New("email already registered")
	ErrSlugTaken        = errors.New("slug already in use")
	ErrPartnerNotActive = errors.New("partner is not approved")

	ErrFeeModelInvalid   = errors.New("fee model is invalid")
	ErrOfferHasReferrals = errors.New("offer fee model is frozen by existing referrals")
	ErrWonValueRequired  = errors.New("won value is required to close as won")

	ErrNotEligibleToReview = errors.New("account is not eligible to review this partner")
	ErrAlreadyReviewed     = errors.New("account already reviewed this partner")
	ErrContractPending     = errors.New("contract declaration already pending")

	ErrLeadAlreadyConverted = errors.New("lead request already converted")
	ErrLeadDiscarded        = errors.New("lead request was discarded")

	ErrCaptchaRequired = errors.New("captcha is required")
	ErrCaptchaInvalid  = errors.New("captcha is invalid")

	ErrEmailConfigInvalid = errors.New("email configuration is incomplete")
)
