package repository

import (
	"errors"
	"time"

	"github.com/zopumarket/zopumarket/internal/models"

	"gorm.io/gorm"
)

// LeadRequestRepository is the lead-form submission data access interface.
type LeadRequestRepository interface {
	Create(request *models.LeadRequest) error
	GetByID(id uint) (*models.LeadRequest, error)
	List(filter LeadRequestListFilter) ([]models.LeadRequest, int64, error)
	UpdateStatus(id uint, status string, referralID *uint, now time.Time) error
}

// GormLeadRequestRepository is the GORM implementation.
type GormLeadRequestRepository struct {
	db *gorm.DB
}

// NewLeadRequestRepository creates a lead request repository.
func NewLeadRequestRepository(db *gorm.DB) *GormLeadRequestRepository {
	return &GormLeadRequestRepository{db: db}
}

// Create inserts a lead request.
func (r *GormLeadRequestRepository) Create(request *models.LeadRequest) error {
	return r.db.Create(request).Error
}

// GetByID fetches a lead request; nil when missing.
func (r *GormLeadRequestRepository) GetByID(id uint) (*models.LeadRequest, error) {
	var request models.LeadRequest
	if err := r.db.Preload("Offer").First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// List returns lead requests plus the unpaginated total.
func (r *GormLeadRequestRepository) List(filter LeadRequestListFilter) ([]models.LeadRequest, int64, error) {
	query := r.db.Model(&models.LeadRequest{})
	if filter.PartnerID > 0 {
		query = query.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.OfferID > 0 {
		query = query.Where("offer_id = ?", filter.OfferID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []models.LeadRequest
	if err := applyPagination(query.Preload("Offer").Order("created_at desc"), filter.Page, filter.PageSize).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// UpdateStatus records the disposition of a lead request.
func (r *GormLeadRequestRepository) UpdateStatus(id uint, status string, referralID *uint, now time.Time) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	if referralID != nil {
		updates["referral_id"] = *referralID
	}
	return r.db.Model(&models.LeadRequest{}).Where("id = ?", id).Updates(updates).Error
}
