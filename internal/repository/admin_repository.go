package repository

import (
	"errors"
	"time"

	"github.com/zopumarket/zopumarket/internal/models"

	"gorm.io/gorm"
)

// AdminRepository is the console account data access interface.
type AdminRepository interface {
	Create(admin *models.Admin) error
	GetByID(id uint) (*models.Admin, error)
	GetByUsername(username string) (*models.Admin, error)
	List(filter AdminListFilter) ([]models.Admin, int64, error)
	Update(admin *models.Admin) error
	UpdatePassword(id uint, passwordHash string) error
	TouchLastLogin(id uint, at time.Time) error
	Delete(id uint) error
	Count() (int64, error)
}

// GormAdminRepository is the GORM implementation.
type GormAdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates an admin repository.
func NewAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// Create inserts an admin.
func (r *GormAdminRepository) Create(admin *models.Admin) error {
	return r.db.Create(admin).Error
}

// GetByID returns the admin or nil when absent.
func (r *GormAdminRepository) GetByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.First(&admin, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByUsername returns the admin or nil when absent.
func (r *GormAdminRepository) GetByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.Where("username = ?", username).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// List pages admins.
func (r *GormAdminRepository) List(filter AdminListFilter) ([]models.Admin, int64, error) {
	query := r.db.Model(&models.Admin{})
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("username "+likeOperator(r.db)+" ? OR display_name "+likeOperator(r.db)+" ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var admins []models.Admin
	err := applyPagination(query.Order("id asc"), filter.Page, filter.PageSize).Find(&admins).Error
	if err != nil {
		return nil, 0, err
	}
	return admins, total, nil
}

// Update saves mutable admin fields.
func (r *GormAdminRepository) Update(admin *models.Admin) error {
	return r.db.Save(admin).Error
}

// UpdatePassword replaces the password hash.
func (r *GormAdminRepository) UpdatePassword(id uint, passwordHash string) error {
	return r.db.Model(&models.Admin{}).Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

// TouchLastLogin records a successful login.
func (r *GormAdminRepository) TouchLastLogin(id uint, at time.Time) error {
	return r.db.Model(&models.Admin{}).Where("id = ?", id).
		Update("last_login_at", at).Error
}

// Delete soft-deletes an admin.
func (r *GormAdminRepository) Delete(id uint) error {
	return r.db.Delete(&models.Admin{}, id).Error
}

// Count counts live admins.
func (r *GormAdminRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&models.Admin{}).Count(&total).Error
	return total, err
}
