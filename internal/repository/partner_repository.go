package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/models"

	"gorm.io/gorm"
)

// PartnerRepository is the partner data access interface.
type PartnerRepository interface {
	Create(partner *models.Partner) error
	GetByID(id uint) (*models.Partner, error)
	GetBySlug(slug string, onlyApproved bool) (*models.Partner, error)
	GetByCNPJ(cnpj string) (*models.Partner, error)
	List(filter PartnerListFilter) ([]models.Partner, int64, error)
	UpdateWithVersion(id uint, version int, updates map[string]interface{}) (int64, error)
	UpdateCurationStatus(id uint, status string, now time.Time) error
	UpdateTier(id uint, tier string, now time.Time) error
	Delete(id uint) error
}

// GormPartnerRepository is the GORM implementation.
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository creates a partner repository.
func NewPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// Create inserts a partner.
func (r *GormPartnerRepository) Create(partner *models.Partner) error {
	return r.db.Create(partner).Error
}

// GetByID fetches a partner; nil when missing.
func (r *GormPartnerRepository) GetByID(id uint) (*models.Partner, error) {
	var partner models.Partner
	if err := r.db.First(&partner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &partner, nil
}

// GetBySlug fetches a partner by slug, optionally restricted to APPROVED.
func (r *GormPartnerRepository) GetBySlug(slug string, onlyApproved bool) (*models.Partner, error) {
	query := r.db.Where("slug = ?", slug)
	if onlyApproved {
		query = query.Where("curation_status = ?", constants.CurationStatusApproved)
	}
	var partner models.Partner
	if err := query.First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &partner, nil
}

// GetByCNPJ fetches a partner by normalized CNPJ; nil when missing.
func (r *GormPartnerRepository) GetByCNPJ(cnpj string) (*models.Partner, error) {
	var partner models.Partner
	if err := r.db.Where("cnpj = ?", cnpj).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &partner, nil
}

// List returns partners plus the unpaginated total.
func (r *GormPartnerRepository) List(filter PartnerListFilter) ([]models.Partner, int64, error) {
	query := r.db.Model(&models.Partner{})
	if filter.CurationStatus != "" {
		query = query.Where("curation_status = ?", filter.CurationStatus)
	}
	if filter.Tier != "" {
		query = query.Where("tier = ?", filter.Tier)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		op := likeOperator(r.db)
		cond := fmt.Sprintf("company_name %s ? OR legal_name %s ? OR cnpj %s ?", op, op, op)
		query = query.Where(cond, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var partners []models.Partner
	if err := applyPagination(query.Order("created_at desc"), filter.Page, filter.PageSize).
		Find(&partners).Error; err != nil {
		return nil, 0, err
	}
	return partners, total, nil
}

// UpdateWithVersion applies updates only when the stored version matches,
// bumping the version column. Returns affected rows.
func (r *GormPartnerRepository) UpdateWithVersion(id uint, version int, updates map[string]interface{}) (int64, error) {
	updates["version"] = gorm.Expr("version + 1")
	result := r.db.Model(&models.Partner{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// UpdateCurationStatus sets the curation status.
func (r *GormPartnerRepository) UpdateCurationStatus(id uint, status string, now time.Time) error {
	return r.db.Model(&models.Partner{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"curation_status": status,
			"version":         gorm.Expr("version + 1"),
			"updated_at":      now,
		}).Error
}

// UpdateTier sets the partner tier.
func (r *GormPartnerRepository) UpdateTier(id uint, tier string, now time.Time) error {
	return r.db.Model(&models.Partner{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"tier":       tier,
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		}).Error
}

// Delete soft-deletes a partner.
func (r *GormPartnerRepository) Delete(id uint) error {
	return r.db.Delete(&models.Partner{}, id).Error
}
