package service

import (
	"strings"
	"time"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/repository"
)

// ContractService owns buyer contract declarations and the review
// eligibility they unlock.
type ContractService struct {
	contractRepo repository.ContractRepository
	offerRepo    repository.OfferRepository
}

// NewContractService creates a contract service.
func NewContractService(contractRepo repository.ContractRepository, offerRepo repository.OfferRepository) *ContractService {
	return &ContractService{contractRepo: contractRepo, offerRepo: offerRepo}
}

// DeclareContractInput is the buyer submission.
type DeclareContractInput struct {
	OfferID        uint
	ContractDate   time.Time
	ContractValue  int64
	ContractPeriod string
	Comments       string
}

// Declare files a contract declaration in PENDING. One pending declaration
// per user and partner at a time.
func (s *ContractService) Declare(userID uint, input DeclareContractInput) (*models.ContractDeclaration, error) {
	if userID == 0 || input.ContractValue < 0 {
		return nil, ErrValidation
	}
	if input.ContractDate.IsZero() || input.ContractDate.After(time.Now()) {
		return nil, ErrValidation
	}

	offer, err := s.offerRepo.GetByID(input.OfferID)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, ErrNotFound
	}

	pending, _, err := s.contractRepo.List(repository.ContractListFilter{
		UserID:    userID,
		PartnerID: offer.PartnerID,
		Status:    constants.ContractStatusPending,
		PageSize:  1,
	})
	if err != nil {
		return nil, err
	}
	if len(pending) > 0 {
		return nil, ErrContractPending
	}

	declaration := &models.ContractDeclaration{
		OfferID:        offer.ID,
		PartnerID:      offer.PartnerID,
		UserID:         userID,
		ContractDate:   input.ContractDate,
		ContractValue:  input.ContractValue,
		ContractPeriod: strings.TrimSpace(input.ContractPeriod),
		Comments:       input.Comments,
		Status:         constants.ContractStatusPending,
	}
	if err := s.contractRepo.Create(declaration); err != nil {
		return nil, err
	}
	return declaration, nil
}

// Review settles a pending declaration as APPROVED or REJECTED.
func (s *ContractService) Review(id uint, reviewerID uint, approve bool) (*models.ContractDeclaration, error) {
	declaration, err := s.contractRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if declaration == nil {
		return nil, ErrNotFound
	}
	if declaration.Status != constants.ContractStatusPending {
		return nil, ErrInvalidTransition
	}

	status := constants.ContractStatusRejected
	if approve {
		status = constants.ContractStatusApproved
	}
	if err := s.contractRepo.UpdateStatus(id, status, reviewerID, time.Now()); err != nil {
		return nil, err
	}
	return s.contractRepo.GetByID(id)
}

// List pages declarations for the console.
func (s *ContractService) List(filter repository.ContractListFilter) ([]models.ContractDeclaration, int64, error) {
	return s.contractRepo.List(filter)
}

// ListForUser pages a buyer's own declarations.
func (s *ContractService) ListForUser(userID uint, page, pageSize int) ([]models.ContractDeclaration, int64, error) {
	return s.contractRepo.List(repository.ContractListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
	})
}

// CanReview reports whether the user may review the partner: either an
// approved contract declaration exists, or the user bought one of the
// partner's checkout offers (declared through the same flow).
func (s *ContractService) CanReview(userID, partnerID uint) (bool, error) {
	if userID == 0 || partnerID == 0 {
		return false, nil
	}
	return s.contractRepo.HasApproved(userID, partnerID)
}
