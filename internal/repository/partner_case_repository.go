package repository

import (
	"errors"

	"github.com/zopumarket/zopumarket/internal/models"

	"gorm.io/gorm"
)

// PartnerCaseRepository is the success-case data access interface.
type PartnerCaseRepository interface {
	Create(partnerCase *models.PartnerCase) error
	GetByID(id uint) (*models.PartnerCase, error)
	List(filter PartnerCaseListFilter) ([]models.PartnerCase, int64, error)
	Update(partnerCase *models.PartnerCase) error
	Delete(id uint) error
}

// GormPartnerCaseRepository is the GORM implementation.
type GormPartnerCaseRepository struct {
	db *gorm.DB
}

// NewPartnerCaseRepository creates a case repository.
func NewPartnerCaseRepository(db *gorm.DB) *GormPartnerCaseRepository {
	return &GormPartnerCaseRepository{db: db}
}

// Create inserts a case.
func (r *GormPartnerCaseRepository) Create(partnerCase *models.PartnerCase) error {
	return r.db.Create(partnerCase).Error
}

// GetByID fetches a case; nil when missing.
func (r *GormPartnerCaseRepository) GetByID(id uint) (*models.PartnerCase, error) {
	var partnerCase models.PartnerCase
	if err := r.db.First(&partnerCase, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &partnerCase, nil
}

// List returns cases plus the unpaginated total.
func (r *GormPartnerCaseRepository) List(filter PartnerCaseListFilter) ([]models.PartnerCase, int64, error) {
	query := r.db.Model(&models.PartnerCase{})
	if filter.PartnerID > 0 {
		query = query.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.OnlyPublished {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cases []models.PartnerCase
	if err := applyPagination(query.Order("sort_order asc, created_at desc"), filter.Page, filter.PageSize).
		Find(&cases).Error; err != nil {
		return nil, 0, err
	}
	return cases, total, nil
}

// Update saves the full case row.
func (r *GormPartnerCaseRepository) Update(partnerCase *models.PartnerCase) error {
	return r.db.Save(partnerCase).Error
}

// Delete soft-deletes a case.
func (r *GormPartnerCaseRepository) Delete(id uint) error {
	return r.db.Delete(&models.PartnerCase{}, id).Error
}
