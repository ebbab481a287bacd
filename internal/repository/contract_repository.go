package repository

import (
	"errors"
	"time"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/models"

	"gorm.io/gorm"
)

// ContractRepository is the contract declaration data access interface.
type ContractRepository interface {
	Create(declaration *models.ContractDeclaration) error
	GetByID(id uint) (*models.ContractDeclaration, error)
	List(filter ContractListFilter) ([]models.ContractDeclaration, int64, error)
	UpdateStatus(id uint, status string, reviewerID uint, now time.Time) error
	HasApproved(userID, partnerID uint) (bool, error)
}

// GormContractRepository is the GORM implementation.
type GormContractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a contract repository.
func NewContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// Create inserts a declaration.
func (r *GormContractRepository) Create(declaration *models.ContractDeclaration) error {
	return r.db.Create(declaration).Error
}

// GetByID fetches a declaration; nil when missing.
func (r *GormContractRepository) GetByID(id uint) (*models.ContractDeclaration, error) {
	var declaration models.ContractDeclaration
	if err := r.db.Preload("Offer").Preload("Partner").First(&declaration, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &declaration, nil
}

// List returns declarations plus the unpaginated total.
func (r *GormContractRepository) List(filter ContractListFilter) ([]models.ContractDeclaration, int64, error) {
	query := r.db.Model(&models.ContractDeclaration{})
	if filter.PartnerID > 0 {
		query = query.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var declarations []models.ContractDeclaration
	if err := applyPagination(query.Preload("Offer").Preload("Partner").Order("created_at desc"), filter.Page, filter.PageSize).
		Find(&declarations).Error; err != nil {
		return nil, 0, err
	}
	return declarations, total, nil
}

// UpdateStatus records the review decision.
func (r *GormContractRepository) UpdateStatus(id uint, status string, reviewerID uint, now time.Time) error {
	return r.db.Model(&models.ContractDeclaration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
			"updated_at":  now,
		}).Error
}

// HasApproved reports whether the user holds an approved declaration for the
// partner. Eligibility is always re-derived from this query, never cached.
func (r *GormContractRepository) HasApproved(userID, partnerID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ContractDeclaration{}).
		Where("user_id = ? AND partner_id = ? AND status = ?", userID, partnerID, constants.ContractStatusApproved).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
