package repository

import (
	"github.com/zopumarket/zopumarket/internal/models"

	"gorm.io/gorm"
)

// ReviewAggregateRow is the per-partner rating rollup.
type ReviewAggregateRow struct {
	PartnerID     uint
	ReviewCount   int64
	AverageRating float64
}

// ReviewRepository is the review data access interface.
type ReviewRepository interface {
	Create(review *models.Review) error
	List(filter ReviewListFilter) ([]models.Review, int64, error)
	AggregateByPartner(partnerID uint) (ReviewAggregateRow, error)
	HasReviewed(userID, partnerID uint) (bool, error)
}

// GormReviewRepository is the GORM implementation.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a review repository.
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Create inserts a review. Reviews are never updated afterwards.
func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// List returns reviews plus the unpaginated total.
func (r *GormReviewRepository) List(filter ReviewListFilter) ([]models.Review, int64, error) {
	query := r.db.Model(&models.Review{})
	if filter.PartnerID > 0 {
		query = query.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.MinRating > 0 {
		query = query.Where("rating >= ?", filter.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	if err := applyPagination(query.Order("created_at desc"), filter.Page, filter.PageSize).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// HasReviewed reports whether the user already reviewed the partner.
func (r *GormReviewRepository) HasReviewed(userID, partnerID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Review{}).
		Where("user_id = ? AND partner_id = ?", userID, partnerID).
		Count(&count).Error
	return count > 0, err
}

// AggregateByPartner computes count and average rating for one partner.
// Returns a zero row when the partner has no reviews.
func (r *GormReviewRepository) AggregateByPartner(partnerID uint) (ReviewAggregateRow, error) {
	row := ReviewAggregateRow{PartnerID: partnerID}
	err := r.db.Model(&models.Review{}).
		Where("partner_id = ?", partnerID).
		Select("COUNT(*) as review_count, COALESCE(AVG(rating), 0) as average_rating").
		Scan(&row).Error
	return row, err
}
