package service

import (
	"strings"
	"time"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/logger"
	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/queue"
	"github.com/zopumarket/zopumarket/internal/repository"
)

// referralTransitions is the allowed status graph for caller-driven updates.
// OVERDUE is never a valid target here: only the sweep sets it, via
// MarkOverdue. Partners can still acknowledge late, so OVERDUE leads back
// into ACKED.
var referralTransitions = map[string][]string{
	constants.ReferralStatusSent:          {constants.ReferralStatusAcked},
	constants.ReferralStatusOverdue:       {constants.ReferralStatusAcked},
	constants.ReferralStatusAcked:         {constants.ReferralStatusInNegotiation, constants.ReferralStatusWon, constants.ReferralStatusLost},
	constants.ReferralStatusInNegotiation: {constants.ReferralStatusWon, constants.ReferralStatusLost},
	constants.ReferralStatusWon:           nil,
	constants.ReferralStatusLost:          nil,
}

// CanTransitionReferral reports whether a status change is allowed.
func CanTransitionReferral(from, to string) bool {
	for _, allowed := range referralTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ReferralService owns the referral lifecycle: creation with commission
// snapshot, status transitions, and the overdue sweep.
type ReferralService struct {
	referralRepo repository.ReferralRepository
	offerRepo    repository.OfferRepository
	partnerRepo  repository.PartnerRepository
	queueClient  *queue.Client
	ackSLAHours  int
}

// NewReferralService creates a referral service.
func NewReferralService(
	referralRepo repository.ReferralRepository,
	offerRepo repository.OfferRepository,
	partnerRepo repository.PartnerRepository,
	queueClient *queue.Client,
	ackSLAHours int,
) *ReferralService {
	if ackSLAHours <= 0 {
		ackSLAHours = 120
	}
	return &ReferralService{
		referralRepo: referralRepo,
		offerRepo:    offerRepo,
		partnerRepo:  partnerRepo,
		queueClient:  queueClient,
		ackSLAHours:  ackSLAHours,
	}
}

// CreateReferralInput is the referral creation input.
type CreateReferralInput struct {
	OfferID       uint
	BuyerName     string
	BuyerCompany  string
	BuyerEmail    string
	BuyerPhone    string
	ExpectedValue int64
	InternalNotes string
}

// Create opens a referral in SENT. The success fee percent and the expected
// commission are frozen here; later fee edits on the offer never touch them.
func (s *ReferralService) Create(input CreateReferralInput) (*models.Referral, error) {
	if strings.TrimSpace(input.BuyerName) == "" {
		return nil, ErrValidation
	}
	if input.ExpectedValue < 0 {
		return nil, ErrValidation
	}

	offer, err := s.offerRepo.GetByID(input.OfferID)
	if err != nil {
		return nil, err
	}
	if offer == nil || !offer.IsActive {
		return nil, ErrNotFound
	}

	partner, err := s.partnerRepo.GetByID(offer.PartnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrNotFound
	}
	if partner.CurationStatus != constants.CurationStatusApproved {
		return nil, ErrPartnerNotActive
	}

	now := time.Now()
	referral := &models.Referral{
		OfferID:                 offer.ID,
		PartnerID:               partner.ID,
		BuyerName:               strings.TrimSpace(input.BuyerName),
		BuyerCompany:            strings.TrimSpace(input.BuyerCompany),
		BuyerEmail:              strings.TrimSpace(input.BuyerEmail),
		BuyerPhone:              strings.TrimSpace(input.BuyerPhone),
		Status:                  constants.ReferralStatusSent,
		ExpectedValue:           input.ExpectedValue,
		SuccessFeePercentAtSent: offer.SuccessFeePercent,
		SuccessFeeExpected:      ComputeCommission(input.ExpectedValue, offer.SuccessFeePercent),
		AckDeadline:             now.Add(time.Duration(s.ackSLAHours) * time.Hour),
		InternalNotes:           input.InternalNotes,
		LastStatusUpdate:        now,
		Version:                 1,
	}
	if err := s.referralRepo.Create(referral); err != nil {
		return nil, err
	}

	if err := s.queueClient.EnqueueReferralNotifyEmail(queue.ReferralNotifyEmailPayload{
		ReferralID: referral.ID,
		Event:      "created",
	}); err != nil {
		logger.Warnw("enqueue referral notification failed", "referral_id", referral.ID, "error", err)
	}
	return referral, nil
}

// ReferralActor identifies who is changing a referral.
type ReferralActor struct {
	PartnerID uint // 0 for console staff
	IsAdmin   bool
}

func (a ReferralActor) canTouch(referral *models.Referral) bool {
	if a.IsAdmin {
		return true
	}
	return a.PartnerID != 0 && a.PartnerID == referral.PartnerID
}

// UpdateStatusInput is the transition input. Version must echo the version
// the caller last read.
type UpdateStatusInput struct {
	NewStatus     string
	WonValue      *int64
	InternalNotes *string
	Version       int
}

// UpdateStatus moves a referral through the lifecycle. The write is a
// compare-and-swap on the version column; a stale version yields
// ErrVersionConflict and no change.
func (s *ReferralService) UpdateStatus(id uint, actor ReferralActor, input UpdateStatusInput) (*models.Referral, error) {
	referral, err := s.referralRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if referral == nil {
		return nil, ErrNotFound
	}
	if !actor.canTouch(referral) {
		return nil, ErrForbidden
	}
	if !CanTransitionReferral(referral.Status, input.NewStatus) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":             input.NewStatus,
		"last_status_update": now,
	}
	if input.InternalNotes != nil {
		updates["internal_notes"] = *input.InternalNotes
	}

	if input.NewStatus == constants.ReferralStatusWon {
		if input.WonValue == nil || *input.WonValue < 0 {
			return nil, ErrWonValueRequired
		}
		offer, err := s.offerRepo.GetByID(referral.OfferID)
		if err != nil {
			return nil, err
		}
		if offer == nil {
			return nil, ErrNotFound
		}
		// Realized commission uses the fee configured on the offer at the
		// moment of the WON close, not the one frozen at SENT.
		updates["won_value"] = *input.WonValue
		updates["success_fee_percent_at_won"] = offer.SuccessFeePercent
		updates["success_fee_realized"] = ComputeCommission(*input.WonValue, offer.SuccessFeePercent)
	}

	rows, err := s.referralRepo.UpdateWithVersion(id, input.Version, updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrVersionConflict
	}

	if err := s.queueClient.EnqueueReferralNotifyEmail(queue.ReferralNotifyEmailPayload{
		ReferralID: id,
		Event:      "status:" + input.NewStatus,
	}); err != nil {
		logger.Warnw("enqueue referral notification failed", "referral_id", id, "error", err)
	}
	return s.referralRepo.GetByID(id)
}

// Get fetches one referral scoped to the actor.
func (s *ReferralService) Get(id uint, actor ReferralActor) (*models.Referral, error) {
	referral, err := s.referralRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if referral == nil {
		return nil, ErrNotFound
	}
	if !actor.canTouch(referral) {
		return nil, ErrForbidden
	}
	return referral, nil
}

// List pages referrals for the console.
func (s *ReferralService) List(filter repository.ReferralListFilter) ([]models.Referral, int64, error) {
	return s.referralRepo.List(filter)
}

// ListForPartner pages a partner's own referrals.
func (s *ReferralService) ListForPartner(partnerID uint, status string, page, pageSize int) ([]models.Referral, int64, error) {
	return s.referralRepo.List(repository.ReferralListFilter{
		Page:      page,
		PageSize:  pageSize,
		PartnerID: partnerID,
		Status:    status,
	})
}

// SweepOverdue flips every SENT referral past its acknowledgement deadline
// to OVERDUE and notifies the partners involved.
func (s *ReferralService) SweepOverdue(now time.Time) (int64, error) {
	flipped, err := s.referralRepo.MarkOverdue(now)
	if err != nil {
		return 0, err
	}
	if flipped > 0 {
		logger.Infow("referrals marked overdue", "count", flipped)
	}
	return flipped, nil
}
