package repository

import (
	"errors"
	"strings"

	"github.com/zopumarket/zopumarket/internal/models"

	"gorm.io/gorm"
)

// FavoriteRepository is the favorites data access interface.
type FavoriteRepository interface {
	ListByUser(userID uint) ([]models.Favorite, error)
	Add(favorite *models.Favorite) error
	Remove(userID, offerID uint) error
	Exists(userID, offerID uint) (bool, error)
}

// GormFavoriteRepository is the GORM implementation.
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a favorites repository.
func NewFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// ListByUser returns the user's saved offers, newest first.
func (r *GormFavoriteRepository) ListByUser(userID uint) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := r.db.Preload("Offer").Preload("Offer.Partner").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&favorites).Error
	return favorites, err
}

// Add inserts a favorite; duplicate pairs are ignored.
func (r *GormFavoriteRepository) Add(favorite *models.Favorite) error {
	err := r.db.Create(favorite).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

// Remove deletes a favorite pair.
func (r *GormFavoriteRepository) Remove(userID, offerID uint) error {
	return r.db.Where("user_id = ? AND offer_id = ?", userID, offerID).
		Delete(&models.Favorite{}).Error
}

// Exists reports whether the pair is saved.
func (r *GormFavoriteRepository) Exists(userID, offerID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND offer_id = ?", userID, offerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
