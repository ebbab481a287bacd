package service

import (
	"strings"

	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/repository"
)

// PartnerCaseService owns the success cases shown on partner profiles.
type PartnerCaseService struct {
	caseRepo    repository.PartnerCaseRepository
	partnerRepo repository.PartnerRepository
}

// NewPartnerCaseService creates a partner case service.
func NewPartnerCaseService(caseRepo repository.PartnerCaseRepository, partnerRepo repository.PartnerRepository) *PartnerCaseService {
	return &PartnerCaseService{caseRepo: caseRepo, partnerRepo: partnerRepo}
}

// PartnerCaseInput is the create/update input.
type PartnerCaseInput struct {
	PartnerID   uint
	Title       string
	ClientName  string
	Segment     string
	Summary     string
	Results     []map[string]interface{}
	IsPublished *bool
	SortOrder   int
}

func (s *PartnerCaseService) validate(input *PartnerCaseInput) error {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" || input.PartnerID == 0 {
		return ErrValidation
	}
	return nil
}

// Create adds a success case.
func (s *PartnerCaseService) Create(input PartnerCaseInput) (*models.PartnerCase, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}
	partner, err := s.partnerRepo.GetByID(input.PartnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrNotFound
	}

	published := true
	if input.IsPublished != nil {
		published = *input.IsPublished
	}
	partnerCase := &models.PartnerCase{
		PartnerID:   input.PartnerID,
		Title:       input.Title,
		ClientName:  strings.TrimSpace(input.ClientName),
		Segment:     strings.TrimSpace(input.Segment),
		Summary:     input.Summary,
		Results:     models.JSONArray(input.Results),
		IsPublished: published,
		SortOrder:   input.SortOrder,
	}
	if err := s.caseRepo.Create(partnerCase); err != nil {
		return nil, err
	}
	return partnerCase, nil
}

// Update rewrites a success case.
func (s *PartnerCaseService) Update(id uint, input PartnerCaseInput) (*models.PartnerCase, error) {
	partnerCase, err := s.caseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if partnerCase == nil {
		return nil, ErrNotFound
	}
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	partnerCase.Title = input.Title
	partnerCase.ClientName = strings.TrimSpace(input.ClientName)
	partnerCase.Segment = strings.TrimSpace(input.Segment)
	partnerCase.Summary = input.Summary
	partnerCase.Results = models.JSONArray(input.Results)
	partnerCase.SortOrder = input.SortOrder
	if input.IsPublished != nil {
		partnerCase.IsPublished = *input.IsPublished
	}
	if err := s.caseRepo.Update(partnerCase); err != nil {
		return nil, err
	}
	return partnerCase, nil
}

// Delete removes a success case.
func (s *PartnerCaseService) Delete(id uint) error {
	partnerCase, err := s.caseRepo.GetByID(id)
	if err != nil {
		return err
	}
	if partnerCase == nil {
		return ErrNotFound
	}
	return s.caseRepo.Delete(id)
}

// List pages cases for the console.
func (s *PartnerCaseService) List(filter repository.PartnerCaseListFilter) ([]models.PartnerCase, int64, error) {
	return s.caseRepo.List(filter)
}

// ListPublished pages a partner's published cases for the public profile.
func (s *PartnerCaseService) ListPublished(partnerID uint, page, pageSize int) ([]models.PartnerCase, int64, error) {
	return s.caseRepo.List(repository.PartnerCaseListFilter{
		Page:          page,
		PageSize:      pageSize,
		PartnerID:     partnerID,
		OnlyPublished: true,
	})
}
