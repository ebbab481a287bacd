package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/models"

	"gorm.io/gorm"
)

// ReferralRepository is the referral data access interface.
type ReferralRepository interface {
	Create(referral *models.Referral) error
	GetByID(id uint) (*models.Referral, error)
	List(filter ReferralListFilter) ([]models.Referral, int64, error)
	UpdateWithVersion(id uint, version int, updates map[string]interface{}) (int64, error)
	MarkOverdue(now time.Time) (int64, error)
	ListInProgress() ([]models.Referral, error)
}

// GormReferralRepository is the GORM implementation.
type GormReferralRepository struct {
	db *gorm.DB
}

// NewReferralRepository creates a referral repository.
func NewReferralRepository(db *gorm.DB) *GormReferralRepository {
	return &GormReferralRepository{db: db}
}

// Create inserts a referral.
func (r *GormReferralRepository) Create(referral *models.Referral) error {
	return r.db.Create(referral).Error
}

// GetByID fetches a referral with offer and partner; nil when missing.
func (r *GormReferralRepository) GetByID(id uint) (*models.Referral, error) {
	var referral models.Referral
	if err := r.db.Preload("Offer").Preload("Partner").First(&referral, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &referral, nil
}

// List returns referrals plus the unpaginated total.
func (r *GormReferralRepository) List(filter ReferralListFilter) ([]models.Referral, int64, error) {
	query := r.db.Model(&models.Referral{})
	if filter.PartnerID > 0 {
		query = query.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.OfferID > 0 {
		query = query.Where("offer_id = ?", filter.OfferID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at < ?", *filter.CreatedTo)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		op := likeOperator(r.db)
		cond := fmt.Sprintf("buyer_name %s ? OR buyer_company %s ? OR buyer_email %s ?", op, op, op)
		query = query.Where(cond, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var referrals []models.Referral
	if err := applyPagination(query.Preload("Offer").Preload("Partner").Order("created_at desc"), filter.Page, filter.PageSize).
		Find(&referrals).Error; err != nil {
		return nil, 0, err
	}
	return referrals, total, nil
}

// UpdateWithVersion applies updates only when the stored version matches,
// bumping the version column. Returns affected rows.
func (r *GormReferralRepository) UpdateWithVersion(id uint, version int, updates map[string]interface{}) (int64, error) {
	updates["version"] = gorm.Expr("version + 1")
	result := r.db.Model(&models.Referral{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// MarkOverdue moves SENT referrals whose ack deadline elapsed to OVERDUE.
// Returns the number of rows transitioned.
func (r *GormReferralRepository) MarkOverdue(now time.Time) (int64, error) {
	result := r.db.Model(&models.Referral{}).
		Where("status = ? AND ack_deadline < ?", constants.ReferralStatusSent, now).
		Updates(map[string]interface{}{
			"status":             constants.ReferralStatusOverdue,
			"last_status_update": now,
			"version":            gorm.Expr("version + 1"),
			"updated_at":         now,
		})
	return result.RowsAffected, result.Error
}

// ListInProgress returns referrals in a non-terminal status.
func (r *GormReferralRepository) ListInProgress() ([]models.Referral, error) {
	var referrals []models.Referral
	err := r.db.Where("status IN ?", []string{
		constants.ReferralStatusSent,
		constants.ReferralStatusAcked,
		constants.ReferralStatusInNegotiation,
		constants.ReferralStatusOverdue,
	}).Find(&referrals).Error
	return referrals, err
}
