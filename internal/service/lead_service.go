package service

import (
	"strings"
	"time"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/repository"
)

// LeadService owns public lead-form submissions and their conversion into
// referrals.
type LeadService struct {
	leadRepo        repository.LeadRequestRepository
	offerRepo       repository.OfferRepository
	referralService *ReferralService
}

// NewLeadService creates a lead service.
func NewLeadService(leadRepo repository.LeadRequestRepository, offerRepo repository.OfferRepository, referralService *ReferralService) *LeadService {
	return &LeadService{
		leadRepo:        leadRepo,
		offerRepo:       offerRepo,
		referralService: referralService,
	}
}

// SubmitLeadInput is the public form submission.
type SubmitLeadInput struct {
	OfferID  uint
	Name     string
	Company  string
	Email    string
	Phone    string
	Message  string
	ClientIP string
}

// Submit files an open lead request against a LEAD_FORM offer.
func (s *LeadService) Submit(input SubmitLeadInput) (*models.LeadRequest, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" || input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, ErrValidation
	}

	offer, err := s.offerRepo.GetByID(input.OfferID)
	if err != nil {
		return nil, err
	}
	if offer == nil || !offer.IsActive {
		return nil, ErrNotFound
	}
	if offer.SaleMode != constants.SaleModeLeadForm {
		return nil, ErrValidation
	}

	request := &models.LeadRequest{
		OfferID:   offer.ID,
		PartnerID: offer.PartnerID,
		Name:      input.Name,
		Company:   strings.TrimSpace(input.Company),
		Email:     input.Email,
		Phone:     strings.TrimSpace(input.Phone),
		Message:   input.Message,
		Status:    constants.LeadRequestStatusOpen,
		ClientIP:  input.ClientIP,
	}
	if err := s.leadRepo.Create(request); err != nil {
		return nil, err
	}
	return request, nil
}

// ConvertInput shapes the referral created from a lead request.
type ConvertInput struct {
	ExpectedValue int64
	InternalNotes string
}

// Convert turns an open lead request into a referral and marks the request
// converted, keeping the back-reference.
func (s *LeadService) Convert(id uint, input ConvertInput) (*models.Referral, error) {
	request, err := s.leadRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrNotFound
	}
	switch request.Status {
	case constants.LeadRequestStatusConverted:
		return nil, ErrLeadAlreadyConverted
	case constants.LeadRequestStatusDiscarded:
		return nil, ErrLeadDiscarded
	}

	referral, err := s.referralService.Create(CreateReferralInput{
		OfferID:       request.OfferID,
		BuyerName:     request.Name,
		BuyerCompany:  request.Company,
		BuyerEmail:    request.Email,
		BuyerPhone:    request.Phone,
		ExpectedValue: input.ExpectedValue,
		InternalNotes: input.InternalNotes,
	})
	if err != nil {
		return nil, err
	}

	referralID := referral.ID
	if err := s.leadRepo.UpdateStatus(id, constants.LeadRequestStatusConverted, &referralID, time.Now()); err != nil {
		return nil, err
	}
	return referral, nil
}

// Discard closes an open lead request without a referral.
func (s *LeadService) Discard(id uint) error {
	request, err := s.leadRepo.GetByID(id)
	if err != nil {
		return err
	}
	if request == nil {
		return ErrNotFound
	}
	if request.Status != constants.LeadRequestStatusOpen {
		return ErrInvalidTransition
	}
	return s.leadRepo.UpdateStatus(id, constants.LeadRequestStatusDiscarded, nil, time.Now())
}

// Get fetches one lead request.
func (s *LeadService) Get(id uint) (*models.LeadRequest, error) {
	request, err := s.leadRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrNotFound
	}
	return request, nil
}

// List pages lead requests for the console.
func (s *LeadService) List(filter repository.LeadRequestListFilter) ([]models.LeadRequest, int64, error) {
	return s.leadRepo.List(filter)
}
