package repository

import (
	"errors"
	"fmt"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/models"

	"gorm.io/gorm"
)

// OfferRepository is the offer data access interface.
type OfferRepository interface {
	Create(offer *models.Offer, variants []models.OfferVariant) error
	GetByID(id uint) (*models.Offer, error)
	GetBySlug(slug string, onlyApproved bool) (*models.Offer, error)
	List(filter OfferListFilter) ([]models.Offer, int64, error)
	UpdateWithVersion(id uint, version int, updates map[string]interface{}) (int64, error)
	ReplaceVariants(offerID uint, variants []models.OfferVariant) error
	Delete(id uint) error
	HasReferrals(offerID uint) (bool, error)
}

// GormOfferRepository is the GORM implementation.
type GormOfferRepository struct {
	db *gorm.DB
}

// NewOfferRepository creates an offer repository.
func NewOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

// Create inserts the offer and its variants in one transaction.
func (r *GormOfferRepository) Create(offer *models.Offer, variants []models.OfferVariant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(offer).Error; err != nil {
			return err
		}
		for i := range variants {
			variants[i].OfferID = offer.ID
		}
		if len(variants) > 0 {
			if err := tx.Create(&variants).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID fetches an offer with variants; nil when missing.
func (r *GormOfferRepository) GetByID(id uint) (*models.Offer, error) {
	var offer models.Offer
	query := r.db.Preload("Variants", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order asc, id asc")
	}).Preload("Partner").Preload("Category")
	if err := query.First(&offer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &offer, nil
}

// GetBySlug fetches an offer by slug. With onlyApproved the partner must be
// APPROVED and the offer active.
func (r *GormOfferRepository) GetBySlug(slug string, onlyApproved bool) (*models.Offer, error) {
	query := r.db.Preload("Variants", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order asc, id asc")
	}).Preload("Partner").Preload("Category").Where("offers.slug = ?", slug)
	if onlyApproved {
		query = query.Where("offers.is_active = ?", true).
			Where("offers.partner_id IN (?)", r.approvedPartnerIDs())
	}
	var offer models.Offer
	if err := query.First(&offer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &offer, nil
}

func (r *GormOfferRepository) approvedPartnerIDs() *gorm.DB {
	return r.db.Model(&models.Partner{}).
		Select("id").
		Where("curation_status = ?", constants.CurationStatusApproved)
}

// List returns offers plus the unpaginated total.
func (r *GormOfferRepository) List(filter OfferListFilter) ([]models.Offer, int64, error) {
	query := r.db.Model(&models.Offer{})
	if filter.PartnerID > 0 {
		query = query.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.OfferType != "" {
		query = query.Where("offer_type = ?", filter.OfferType)
	}
	if filter.SaleMode != "" {
		query = query.Where("sale_mode = ?", filter.SaleMode)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.OnlyApproved {
		query = query.Where("partner_id IN (?)", r.approvedPartnerIDs())
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		cond := fmt.Sprintf("title %s ? OR description %s ?", likeOperator(r.db), likeOperator(r.db))
		query = query.Where(cond, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.WithPartner {
		query = query.Preload("Partner").Preload("Category")
	}
	query = query.Preload("Variants", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order asc, id asc")
	})

	var offers []models.Offer
	if err := applyPagination(query.Order("created_at desc"), filter.Page, filter.PageSize).
		Find(&offers).Error; err != nil {
		return nil, 0, err
	}
	return offers, total, nil
}

// UpdateWithVersion applies updates only when the stored version matches,
// bumping the version column. Returns affected rows.
func (r *GormOfferRepository) UpdateWithVersion(id uint, version int, updates map[string]interface{}) (int64, error) {
	updates["version"] = gorm.Expr("version + 1")
	result := r.db.Model(&models.Offer{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// ReplaceVariants swaps the offer's variant rows.
func (r *GormOfferRepository) ReplaceVariants(offerID uint, variants []models.OfferVariant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("offer_id = ?", offerID).Delete(&models.OfferVariant{}).Error; err != nil {
			return err
		}
		for i := range variants {
			variants[i].ID = 0
			variants[i].OfferID = offerID
		}
		if len(variants) > 0 {
			if err := tx.Create(&variants).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete soft-deletes an offer and its variants.
func (r *GormOfferRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("offer_id = ?", id).Delete(&models.OfferVariant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Offer{}, id).Error
	})
}

// HasReferrals reports whether any referral references the offer.
func (r *GormOfferRepository) HasReferrals(offerID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Referral{}).Where("offer_id = ?", offerID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
