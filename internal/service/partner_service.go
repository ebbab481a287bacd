package service

import (
	"strings"
	"time"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/logger"
	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/queue"
	"github.com/zopumarket/zopumarket/internal/repository"
)

// curationTransitions is the allowed curation graph. A rejected partner
// can be re-reviewed, an approved one can be demoted back to review.
var curationTransitions = map[string][]string{
	constants.CurationStatusPending:  {constants.CurationStatusApproved, constants.CurationStatusRejected},
	constants.CurationStatusRejected: {constants.CurationStatusPending},
	constants.CurationStatusApproved: {constants.CurationStatusPending},
}

// PartnerService owns partner registration, curation and tiering.
type PartnerService struct {
	partnerRepo repository.PartnerRepository
	queueClient *queue.Client
}

// NewPartnerService creates a partner service.
func NewPartnerService(partnerRepo repository.PartnerRepository, queueClient *queue.Client) *PartnerService {
	return &PartnerService{partnerRepo: partnerRepo, queueClient: queueClient}
}

// PartnerInput is the create/update input.
type PartnerInput struct {
	Slug           string
	CompanyName    string
	LegalName      string
	CNPJ           string
	Tier           string
	ContactName    string
	ContactEmail   string
	ContactPhone   string
	Website        string
	About          string
	CNAEPrincipal  string
	CNAESecundario []string
}

func (s *PartnerService) validateInput(input *PartnerInput) error {
	input.Slug = strings.TrimSpace(strings.ToLower(input.Slug))
	input.CompanyName = strings.TrimSpace(input.CompanyName)
	if input.Slug == "" || input.CompanyName == "" {
		return ErrValidation
	}
	if err := ValidateCNPJ(input.CNPJ); err != nil {
		return err
	}
	input.CNPJ = NormalizeCNPJ(input.CNPJ)
	if input.Tier == "" {
		input.Tier = constants.PartnerTierStandard
	}
	if input.Tier != constants.PartnerTierStandard && input.Tier != constants.PartnerTierPremium {
		return ErrValidation
	}
	return nil
}

// Create registers a partner in PENDING curation.
func (s *PartnerService) Create(input PartnerInput) (*models.Partner, error) {
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}

	existing, err := s.partnerRepo.GetByCNPJ(input.CNPJ)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCNPJTaken
	}
	bySlug, err := s.partnerRepo.GetBySlug(input.Slug, false)
	if err != nil {
		return nil, err
	}
	if bySlug != nil {
		return nil, ErrSlugTaken
	}

	partner := &models.Partner{
		Slug:           input.Slug,
		CompanyName:    input.CompanyName,
		LegalName:      input.LegalName,
		CNPJ:           input.CNPJ,
		CurationStatus: constants.CurationStatusPending,
		Tier:           input.Tier,
		ContactName:    input.ContactName,
		ContactEmail:   strings.TrimSpace(input.ContactEmail),
		ContactPhone:   input.ContactPhone,
		Website:        input.Website,
		About:          input.About,
		CNAEPrincipal:  input.CNAEPrincipal,
		CNAESecundario: input.CNAESecundario,
		Version:        1,
	}
	if err := s.partnerRepo.Create(partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// Update rewrites partner profile fields under the version check. CNPJ and
// curation status are not touched here.
func (s *PartnerService) Update(id uint, version int, input PartnerInput) (*models.Partner, error) {
	partner, err := s.partnerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrNotFound
	}
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}
	if input.CNPJ != partner.CNPJ {
		return nil, ErrValidation
	}
	if input.Slug != partner.Slug {
		bySlug, err := s.partnerRepo.GetBySlug(input.Slug, false)
		if err != nil {
			return nil, err
		}
		if bySlug != nil && bySlug.ID != id {
			return nil, ErrSlugTaken
		}
	}

	rows, err := s.partnerRepo.UpdateWithVersion(id, version, map[string]interface{}{
		"slug":            input.Slug,
		"company_name":    input.CompanyName,
		"legal_name":      input.LegalName,
		"tier":            input.Tier,
		"contact_name":    input.ContactName,
		"contact_email":   strings.TrimSpace(input.ContactEmail),
		"contact_phone":   input.ContactPhone,
		"website":         input.Website,
		"about":           input.About,
		"cnae_principal":  input.CNAEPrincipal,
		"cnae_secundario": models.StringArray(input.CNAESecundario),
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrVersionConflict
	}
	return s.partnerRepo.GetByID(id)
}

// SetCurationStatus moves a partner through the curation workflow. An
// approval provisions the operator account and both decisions notify the
// partner by email.
func (s *PartnerService) SetCurationStatus(id uint, newStatus string) (*models.Partner, error) {
	partner, err := s.partnerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrNotFound
	}

	allowed := false
	for _, next := range curationTransitions[partner.CurationStatus] {
		if next == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	if err := s.partnerRepo.UpdateCurationStatus(id, newStatus, now); err != nil {
		return nil, err
	}

	if newStatus == constants.CurationStatusApproved {
		if err := s.queueClient.EnqueuePartnerProvisionUser(queue.PartnerProvisionUserPayload{PartnerID: id}); err != nil {
			logger.Warnw("enqueue partner provisioning failed", "partner_id", id, "error", err)
		}
	}
	if newStatus == constants.CurationStatusApproved || newStatus == constants.CurationStatusRejected {
		if err := s.queueClient.EnqueueCurationNotifyEmail(queue.CurationNotifyEmailPayload{
			PartnerID: id,
			Decision:  newStatus,
		}); err != nil {
			logger.Warnw("enqueue curation notification failed", "partner_id", id, "error", err)
		}
	}
	return s.partnerRepo.GetByID(id)
}

// SetTier changes a partner's tier.
func (s *PartnerService) SetTier(id uint, tier string) (*models.Partner, error) {
	if tier != constants.PartnerTierStandard && tier != constants.PartnerTierPremium {
		return nil, ErrValidation
	}
	partner, err := s.partnerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrNotFound
	}
	if err := s.partnerRepo.UpdateTier(id, tier, time.Now()); err != nil {
		return nil, err
	}
	return s.partnerRepo.GetByID(id)
}

// Get fetches a partner for the console.
func (s *PartnerService) Get(id uint) (*models.Partner, error) {
	partner, err := s.partnerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrNotFound
	}
	return partner, nil
}

// List pages partners for the console.
func (s *PartnerService) List(filter repository.PartnerListFilter) ([]models.Partner, int64, error) {
	return s.partnerRepo.List(filter)
}

// GetPublicBySlug fetches an approved partner's public profile.
func (s *PartnerService) GetPublicBySlug(slug string) (*models.Partner, error) {
	partner, err := s.partnerRepo.GetBySlug(strings.TrimSpace(strings.ToLower(slug)), true)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrNotFound
	}
	return partner, nil
}

// ListPublic pages approved partners for the public directory.
func (s *PartnerService) ListPublic(tier, search string, page, pageSize int) ([]models.Partner, int64, error) {
	return s.partnerRepo.List(repository.PartnerListFilter{
		Page:           page,
		PageSize:       pageSize,
		CurationStatus: constants.CurationStatusApproved,
		Tier:           tier,
		Search:         search,
	})
}

// Delete removes a partner.
func (s *PartnerService) Delete(id uint) error {
	partner, err := s.partnerRepo.GetByID(id)
	if err != nil {
		return err
	}
	if partner == nil {
		return ErrNotFound
	}
	return s.partnerRepo.Delete(id)
}
