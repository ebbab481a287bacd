package service

import (
	"context"
	"strings"

	"github.com/zopumarket/zopumarket/internal/cache"
	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/repository"
)

// ReviewService owns verified partner reviews. Eligibility comes from the
// contract declaration workflow; reviews are immutable once filed.
type ReviewService struct {
	reviewRepo      repository.ReviewRepository
	partnerRepo     repository.PartnerRepository
	contractService *ContractService
}

// NewReviewService creates a review service.
func NewReviewService(reviewRepo repository.ReviewRepository, partnerRepo repository.PartnerRepository, contractService *ContractService) *ReviewService {
	return &ReviewService{
		reviewRepo:      reviewRepo,
		partnerRepo:     partnerRepo,
		contractService: contractService,
	}
}

// CreateReviewInput is the buyer submission.
type CreateReviewInput struct {
	PartnerID       uint
	ReviewerName    string
	ReviewerCompany string
	Rating          int
	Comment         string
}

// Create files a review for an eligible buyer. Every stored review is
// verified because eligibility was checked against an approved contract.
func (s *ReviewService) Create(userID uint, input CreateReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrValidation
	}
	if strings.TrimSpace(input.ReviewerName) == "" {
		return nil, ErrValidation
	}

	partner, err := s.partnerRepo.GetByID(input.PartnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrNotFound
	}

	eligible, err := s.contractService.CanReview(userID, input.PartnerID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrNotEligibleToReview
	}

	already, err := s.reviewRepo.HasReviewed(userID, input.PartnerID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, ErrAlreadyReviewed
	}

	review := &models.Review{
		PartnerID:       input.PartnerID,
		UserID:          userID,
		ReviewerName:    strings.TrimSpace(input.ReviewerName),
		ReviewerCompany: strings.TrimSpace(input.ReviewerCompany),
		Rating:          input.Rating,
		Comment:         input.Comment,
		IsVerified:      true,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	_ = cache.InvalidatePartnerAggregate(context.Background(), input.PartnerID)
	return review, nil
}

// ListForPartner pages a partner's reviews for the public profile.
func (s *ReviewService) ListForPartner(partnerID uint, page, pageSize int) ([]models.Review, int64, error) {
	return s.reviewRepo.List(repository.ReviewListFilter{
		Page:      page,
		PageSize:  pageSize,
		PartnerID: partnerID,
	})
}

// Aggregate returns the partner's review count and average rating, served
// from cache when possible.
func (s *ReviewService) Aggregate(partnerID uint) (repository.ReviewAggregateRow, error) {
	ctx := context.Background()
	var cached repository.ReviewAggregateRow
	if hit, err := cache.GetPartnerAggregate(ctx, partnerID, &cached); err == nil && hit {
		return cached, nil
	}

	row, err := s.reviewRepo.AggregateByPartner(partnerID)
	if err != nil {
		return row, err
	}
	_ = cache.SetPartnerAggregate(ctx, partnerID, row)
	return row, nil
}

// List pages reviews for the console.
func (s *ReviewService) List(filter repository.ReviewListFilter) ([]models.Review, int64, error) {
	return s.reviewRepo.List(filter)
}
