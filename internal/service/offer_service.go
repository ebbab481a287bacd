package service

import (
	"strings"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/repository"
)

// OfferService owns the catalog: offer CRUD, fee model validation and the
// public listing rules.
type OfferService struct {
	offerRepo   repository.OfferRepository
	partnerRepo repository.PartnerRepository
}

// NewOfferService creates an offer service.
func NewOfferService(offerRepo repository.OfferRepository, partnerRepo repository.PartnerRepository) *OfferService {
	return &OfferService{offerRepo: offerRepo, partnerRepo: partnerRepo}
}

// OfferVariantInput is one priced plan in the input.
type OfferVariantInput struct {
	Name           string
	UserLimit      int
	PriceMonthly   *int64
	PriceQuarterly *int64
	PriceAnnual    *int64
	SortOrder      int
}

// OfferInput is the create/update input. Monetary values are centavos.
type OfferInput struct {
	Slug                string
	Title               string
	Description         string
	PartnerID           uint
	CategoryID          uint
	OfferType           string
	SaleMode            string
	Price               *int64
	PriceMonthly        *int64
	PriceQuarterly      *int64
	PriceAnnual         *int64
	BillingPeriods      []string
	Deliverables        []map[string]interface{}
	FAQ                 []map[string]interface{}
	SuccessFeePercent   int
	ZopuTakeRatePercent *int
	PartnerSharePercent *int
	IsActive            *bool
	Variants            []OfferVariantInput
}

var validOfferTypes = map[string]bool{
	constants.OfferTypeDigital:         true,
	constants.OfferTypeServiceStandard: true,
	constants.OfferTypeServiceComplex:  true,
	constants.OfferTypeLicense:         true,
}

var validBillingPeriods = map[string]bool{
	constants.BillingPeriodMonthly:   true,
	constants.BillingPeriodQuarterly: true,
	constants.BillingPeriodAnnual:    true,
}

func (s *OfferService) validateInput(input *OfferInput) error {
	input.Slug = strings.TrimSpace(strings.ToLower(input.Slug))
	input.Title = strings.TrimSpace(input.Title)
	if input.Slug == "" || input.Title == "" || input.PartnerID == 0 {
		return ErrValidation
	}
	if !validOfferTypes[input.OfferType] {
		return ErrValidation
	}
	if input.SaleMode != constants.SaleModeCheckout && input.SaleMode != constants.SaleModeLeadForm {
		return ErrValidation
	}
	for _, period := range input.BillingPeriods {
		if !validBillingPeriods[period] {
			return ErrValidation
		}
	}
	for _, price := range []*int64{input.Price, input.PriceMonthly, input.PriceQuarterly, input.PriceAnnual} {
		if price != nil && *price < 0 {
			return ErrValidation
		}
	}
	return s.validateFeeModel(input)
}

// validateFeeModel enforces the percent rules. Lead-form offers carry a
// success fee; checkout offers carry a take/share split summing to 100.
func (s *OfferService) validateFeeModel(input *OfferInput) error {
	if !validPercent(input.SuccessFeePercent) {
		return ErrFeeModelInvalid
	}
	if input.SaleMode == constants.SaleModeCheckout {
		split, err := ResolveCheckoutSplit(input.ZopuTakeRatePercent, input.PartnerSharePercent)
		if err != nil {
			return err
		}
		take, share := split.TakeRatePercent, split.PartnerSharePercent
		input.ZopuTakeRatePercent = &take
		input.PartnerSharePercent = &share
	}
	return nil
}

func buildVariants(inputs []OfferVariantInput) []models.OfferVariant {
	variants := make([]models.OfferVariant, 0, len(inputs))
	for _, v := range inputs {
		variants = append(variants, models.OfferVariant{
			Name:           strings.TrimSpace(v.Name),
			UserLimit:      v.UserLimit,
			PriceMonthly:   v.PriceMonthly,
			PriceQuarterly: v.PriceQuarterly,
			PriceAnnual:    v.PriceAnnual,
			SortOrder:      v.SortOrder,
		})
	}
	return variants
}

// Create validates and inserts an offer with its variants.
func (s *OfferService) Create(input OfferInput) (*models.Offer, error) {
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}

	partner, err := s.partnerRepo.GetByID(input.PartnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrNotFound
	}

	existing, err := s.offerRepo.GetBySlug(input.Slug, false)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlugTaken
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	offer := &models.Offer{
		Slug:                input.Slug,
		Title:               input.Title,
		Description:         input.Description,
		PartnerID:           input.PartnerID,
		CategoryID:          input.CategoryID,
		OfferType:           input.OfferType,
		SaleMode:            input.SaleMode,
		Price:               input.Price,
		PriceMonthly:        input.PriceMonthly,
		PriceQuarterly:      input.PriceQuarterly,
		PriceAnnual:         input.PriceAnnual,
		BillingPeriods:      input.BillingPeriods,
		Deliverables:        models.JSONArray(input.Deliverables),
		FAQ:                 models.JSONArray(input.FAQ),
		SuccessFeePercent:   input.SuccessFeePercent,
		ZopuTakeRatePercent: input.ZopuTakeRatePercent,
		PartnerSharePercent: input.PartnerSharePercent,
		IsActive:            isActive,
		Version:             1,
	}
	if err := s.offerRepo.Create(offer, buildVariants(input.Variants)); err != nil {
		return nil, err
	}
	return s.offerRepo.GetByID(offer.ID)
}

// Update rewrites an offer under the optimistic version check. The fee
// model is frozen once the offer has referrals so historical expectations
// stay auditable.
func (s *OfferService) Update(id uint, version int, input OfferInput) (*models.Offer, error) {
	offer, err := s.offerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, ErrNotFound
	}
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}

	if input.Slug != offer.Slug {
		existing, err := s.offerRepo.GetBySlug(input.Slug, false)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrSlugTaken
		}
	}

	updates := map[string]interface{}{
		"slug":            input.Slug,
		"title":           input.Title,
		"description":     input.Description,
		"category_id":     input.CategoryID,
		"offer_type":      input.OfferType,
		"sale_mode":       input.SaleMode,
		"price":           input.Price,
		"price_monthly":   input.PriceMonthly,
		"price_quarterly": input.PriceQuarterly,
		"price_annual":    input.PriceAnnual,
		"billing_periods": models.StringArray(input.BillingPeriods),
		"deliverables":    models.JSONArray(input.Deliverables),
		"faq":             models.JSONArray(input.FAQ),
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	feeChanged := input.SuccessFeePercent != offer.SuccessFeePercent ||
		!equalIntPtr(input.ZopuTakeRatePercent, offer.ZopuTakeRatePercent) ||
		!equalIntPtr(input.PartnerSharePercent, offer.PartnerSharePercent)
	if feeChanged {
		hasReferrals, err := s.offerRepo.HasReferrals(id)
		if err != nil {
			return nil, err
		}
		if hasReferrals && offer.SaleMode == constants.SaleModeCheckout {
			// Checkout splits settle immediately at payment time, so a
			// split edit would rewrite money already divided.
			return nil, ErrOfferHasReferrals
		}
		updates["success_fee_percent"] = input.SuccessFeePercent
		updates["zopu_take_rate_percent"] = input.ZopuTakeRatePercent
		updates["partner_share_percent"] = input.PartnerSharePercent
	}

	rows, err := s.offerRepo.UpdateWithVersion(id, version, updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrVersionConflict
	}

	if input.Variants != nil {
		if err := s.offerRepo.ReplaceVariants(id, buildVariants(input.Variants)); err != nil {
			return nil, err
		}
	}
	return s.offerRepo.GetByID(id)
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Delete removes an offer without referrals. Offers with history are
// deactivated instead so reporting keeps its joins.
func (s *OfferService) Delete(id uint) error {
	offer, err := s.offerRepo.GetByID(id)
	if err != nil {
		return err
	}
	if offer == nil {
		return ErrNotFound
	}
	hasReferrals, err := s.offerRepo.HasReferrals(id)
	if err != nil {
		return err
	}
	if hasReferrals {
		_, err := s.offerRepo.UpdateWithVersion(id, offer.Version, map[string]interface{}{
			"is_active": false,
		})
		return err
	}
	return s.offerRepo.Delete(id)
}

// Get fetches an offer by id for the console.
func (s *OfferService) Get(id uint) (*models.Offer, error) {
	offer, err := s.offerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, ErrNotFound
	}
	return offer, nil
}

// List pages offers for the console.
func (s *OfferService) List(filter repository.OfferListFilter) ([]models.Offer, int64, error) {
	return s.offerRepo.List(filter)
}

// ListPublic pages active offers of approved partners for the catalog.
func (s *OfferService) ListPublic(categoryID uint, offerType, search string, page, pageSize int) ([]models.Offer, int64, error) {
	return s.offerRepo.List(repository.OfferListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   categoryID,
		OfferType:    offerType,
		Search:       search,
		OnlyActive:   true,
		OnlyApproved: true,
		WithPartner:  true,
	})
}

// GetPublicBySlug fetches one active offer of an approved partner.
func (s *OfferService) GetPublicBySlug(slug string) (*models.Offer, error) {
	offer, err := s.offerRepo.GetBySlug(strings.TrimSpace(strings.ToLower(slug)), true)
	if err != nil {
		return nil, err
	}
	if offer == nil || !offer.IsActive {
		return nil, ErrNotFound
	}
	return offer, nil
}
