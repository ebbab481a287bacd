package service

import (
	"strings"

	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/repository"
)

// CategoryService owns the catalog taxonomy.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a category service.
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CategoryInput is the create/update input.
type CategoryInput struct {
	Slug      string
	Name      string
	SortOrder int
}

// Create adds a category.
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	input.Slug = strings.TrimSpace(strings.ToLower(input.Slug))
	input.Name = strings.TrimSpace(input.Name)
	if input.Slug == "" || input.Name == "" {
		return nil, ErrValidation
	}
	existing, err := s.categoryRepo.GetBySlug(input.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlugTaken
	}

	category := &models.Category{
		Slug:      input.Slug,
		Name:      input.Name,
		SortOrder: input.SortOrder,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update rewrites a category.
func (s *CategoryService) Update(id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	input.Slug = strings.TrimSpace(strings.ToLower(input.Slug))
	input.Name = strings.TrimSpace(input.Name)
	if input.Slug == "" || input.Name == "" {
		return nil, ErrValidation
	}
	if input.Slug != category.Slug {
		existing, err := s.categoryRepo.GetBySlug(input.Slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrSlugTaken
		}
	}

	category.Slug = input.Slug
	category.Name = input.Name
	category.SortOrder = input.SortOrder
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category without offers.
func (s *CategoryService) Delete(id uint) error {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrNotFound
	}
	hasOffers, err := s.categoryRepo.HasOffers(id)
	if err != nil {
		return err
	}
	if hasOffers {
		return ErrValidation
	}
	return s.categoryRepo.Delete(id)
}

// ListAll returns the full taxonomy for display.
func (s *CategoryService) ListAll() ([]models.Category, error) {
	return s.categoryRepo.ListAll()
}
