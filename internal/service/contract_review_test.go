package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type contractTestEnv struct {
	contractRepo    repository.ContractRepository
	reviewRepo      repository.ReviewRepository
	partnerRepo     repository.PartnerRepository
	offerRepo       repository.OfferRepository
	contractService *ContractService
	reviewService   *ReviewService
	partner         *models.Partner
	offer           *models.Offer
}

func newContractTestEnv(t *testing.T) *contractTestEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Partner{}, &models.Offer{}, &models.OfferVariant{}, &models.ContractDeclaration{}, &models.Review{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	env := &contractTestEnv{
		contractRepo: repository.NewContractRepository(db),
		reviewRepo:   repository.NewReviewRepository(db),
		partnerRepo:  repository.NewPartnerRepository(db),
		offerRepo:    repository.NewOfferRepository(db),
	}
	env.contractService = NewContractService(env.contractRepo, env.offerRepo)
	env.reviewService = NewReviewService(env.reviewRepo, env.partnerRepo, env.contractService)

	env.partner = &models.Partner{
		Slug:           "acme",
		CompanyName:    "Acme Consultoria",
		CNPJ:           "11222333000181",
		CurationStatus: constants.CurationStatusApproved,
		Tier:           constants.PartnerTierStandard,
		Version:        1,
	}
	if err := env.partnerRepo.Create(env.partner); err != nil {
		t.Fatalf("create partner failed: %v", err)
	}
	env.offer = &models.Offer{
		Slug:              "implantacao-crm",
		Title:             "Implantação CRM",
		PartnerID:         env.partner.ID,
		OfferType:         constants.OfferTypeServiceStandard,
		SaleMode:          constants.SaleModeLeadForm,
		SuccessFeePercent: 15,
		IsActive:          true,
		Version:           1,
	}
	if err := env.offerRepo.Create(env.offer, nil); err != nil {
		t.Fatalf("create offer failed: %v", err)
	}
	return env
}

func (env *contractTestEnv) declare(t *testing.T, userID uint) *models.ContractDeclaration {
	t.Helper()
	declaration, err := env.contractService.Declare(userID, DeclareContractInput{
		OfferID:       env.offer.ID,
		ContractDate:  time.Now().Add(-24 * time.Hour),
		ContractValue: 1200000,
	})
	if err != nil {
		t.Fatalf("declare failed: %v", err)
	}
	return declaration
}

func TestContractDeclareStartsPending(t *testing.T) {
	env := newContractTestEnv(t)
	declaration := env.declare(t, 7)

	if declaration.Status != constants.ContractStatusPending {
		t.Fatalf("status = %q, want PENDING", declaration.Status)
	}
	if declaration.PartnerID != env.partner.ID {
		t.Fatalf("partner id = %d, want %d", declaration.PartnerID, env.partner.ID)
	}
}

func TestContractDeclareRejectsSecondPending(t *testing.T) {
	env := newContractTestEnv(t)
	env.declare(t, 7)

	_, err := env.contractService.Declare(7, DeclareContractInput{
		OfferID:       env.offer.ID,
		ContractDate:  time.Now().Add(-24 * time.Hour),
		ContractValue: 500000,
	})
	if !errors.Is(err, ErrContractPending) {
		t.Fatalf("expected ErrContractPending, got %v", err)
	}
}

func TestContractDeclareRejectsFutureDate(t *testing.T) {
	env := newContractTestEnv(t)
	_, err := env.contractService.Declare(7, DeclareContractInput{
		OfferID:      env.offer.ID,
		ContractDate: time.Now().Add(48 * time.Hour),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestContractApprovalUnlocksReview(t *testing.T) {
	env := newContractTestEnv(t)
	declaration := env.declare(t, 7)

	// Not yet eligible while pending.
	_, err := env.reviewService.Create(7, CreateReviewInput{
		PartnerID:    env.partner.ID,
		ReviewerName: "Joana Prado",
		Rating:       5,
	})
	if !errors.Is(err, ErrNotEligibleToReview) {
		t.Fatalf("expected ErrNotEligibleToReview, got %v", err)
	}

	approved, err := env.contractService.Review(declaration.ID, 1, true)
	if err != nil {
		t.Fatalf("contract review failed: %v", err)
	}
	if approved.Status != constants.ContractStatusApproved {
		t.Fatalf("status = %q, want APPROVED", approved.Status)
	}
	if approved.ReviewedBy == nil || *approved.ReviewedBy != 1 {
		t.Fatalf("reviewed_by = %v, want 1", approved.ReviewedBy)
	}

	review, err := env.reviewService.Create(7, CreateReviewInput{
		PartnerID:    env.partner.ID,
		ReviewerName: "Joana Prado",
		Rating:       5,
		Comment:      "Entrega impecável.",
	})
	if err != nil {
		t.Fatalf("review create failed: %v", err)
	}
	if !review.IsVerified {
		t.Fatalf("review should be verified")
	}
}

func TestReviewRejectsDuplicate(t *testing.T) {
	env := newContractTestEnv(t)
	declaration := env.declare(t, 7)
	if _, err := env.contractService.Review(declaration.ID, 1, true); err != nil {
		t.Fatalf("contract approval failed: %v", err)
	}

	input := CreateReviewInput{PartnerID: env.partner.ID, ReviewerName: "Joana Prado", Rating: 4}
	if _, err := env.reviewService.Create(7, input); err != nil {
		t.Fatalf("first review failed: %v", err)
	}
	_, err := env.reviewService.Create(7, input)
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}
}

func TestReviewRejectsOutOfRangeRating(t *testing.T) {
	env := newContractTestEnv(t)
	for _, rating := range []int{0, 6, -1} {
		_, err := env.reviewService.Create(7, CreateReviewInput{
			PartnerID:    env.partner.ID,
			ReviewerName: "Joana Prado",
			Rating:       rating,
		})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("rating %d: expected ErrValidation, got %v", rating, err)
		}
	}
}

func TestReviewAggregate(t *testing.T) {
	env := newContractTestEnv(t)
	declaration := env.declare(t, 7)
	if _, err := env.contractService.Review(declaration.ID, 1, true); err != nil {
		t.Fatalf("contract approval failed: %v", err)
	}
	other := env.declare(t, 8)
	if _, err := env.contractService.Review(other.ID, 1, true); err != nil {
		t.Fatalf("contract approval failed: %v", err)
	}

	for userID, rating := range map[uint]int{7: 5, 8: 4} {
		if _, err := env.reviewService.Create(userID, CreateReviewInput{
			PartnerID:    env.partner.ID,
			ReviewerName: fmt.Sprintf("Buyer %d", userID),
			Rating:       rating,
		}); err != nil {
			t.Fatalf("review create failed: %v", err)
		}
	}

	aggregate, err := env.reviewService.Aggregate(env.partner.ID)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	if aggregate.ReviewCount != 2 {
		t.Fatalf("review count = %d, want 2", aggregate.ReviewCount)
	}
	if aggregate.AverageRating != 4.5 {
		t.Fatalf("average rating = %v, want 4.5", aggregate.AverageRating)
	}
}

func TestContractReviewOnlyOncePending(t *testing.T) {
	env := newContractTestEnv(t)
	declaration := env.declare(t, 7)
	if _, err := env.contractService.Review(declaration.ID, 1, false); err != nil {
		t.Fatalf("rejection failed: %v", err)
	}
	_, err := env.contractService.Review(declaration.ID, 1, true)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on settled declaration, got %v", err)
	}
}
