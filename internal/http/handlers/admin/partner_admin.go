package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/zopumarket/zopumarket/internal/cnpjlookup"
	"github.com/zopumarket/zopumarket/internal/http/response"
	"github.com/zopumarket/zopumarket/internal/repository"
	"github.com/zopumarket/zopumarket/internal/service"

	"github.com/gin-gonic/gin"
)

// PartnerRequest is the create/update payload for partners.
type PartnerRequest struct {
	Slug           string   `json:"slug" binding:"required"`
	CompanyName    string   `json:"company_name" binding:"required"`
	LegalName      string   `json:"legal_name"`
	CNPJ           string   `json:"cnpj" binding:"required"`
	Tier           string   `json:"tier"`
	ContactName    string   `json:"contact_name"`
	ContactEmail   string   `json:"contact_email"`
	ContactPhone   string   `json:"contact_phone"`
	Website        string   `json:"website"`
	About          string   `json:"about"`
	CNAEPrincipal  string   `json:"cnae_principal"`
	CNAESecundario []string `json:"cnae_secundario"`
}

func (r PartnerRequest) toServiceInput() service.PartnerInput {
	return service.PartnerInput{
		Slug:           r.Slug,
		CompanyName:    r.CompanyName,
		LegalName:      r.LegalName,
		CNPJ:           r.CNPJ,
		Tier:           r.Tier,
		ContactName:    r.ContactName,
		ContactEmail:   r.ContactEmail,
		ContactPhone:   r.ContactPhone,
		Website:        r.Website,
		About:          r.About,
		CNAEPrincipal:  r.CNAEPrincipal,
		CNAESecundario: r.CNAESecundario,
	}
}

// CreatePartner registers a partner in PENDING curation.
func (h *Handler) CreatePartner(c *gin.Context) {
	var req PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	partner, err := h.PartnerService.Create(req.toServiceInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, partner)
}

// UpdatePartnerRequest carries the optimistic concurrency version.
type UpdatePartnerRequest struct {
	PartnerRequest
	Version int `json:"version"`
}

// UpdatePartner edits partner registration data. The CNPJ is immutable.
func (h *Handler) UpdatePartner(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	partner, err := h.PartnerService.Update(id, req.Version, req.toServiceInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, partner)
}

// GetAdminPartners pages partners with curation and tier filters.
func (h *Handler) GetAdminPartners(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	partners, total, err := h.PartnerService.List(repository.PartnerListFilter{
		Page:           page,
		PageSize:       pageSize,
		CurationStatus: c.Query("curation_status"),
		Tier:           c.Query("tier"),
		Search:         c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "partner fetch failed", err)
		return
	}

	response.SuccessWithPage(c, partners, response.NewPagination(page, pageSize, total))
}

// GetAdminPartner fetches one partner.
func (h *Handler) GetAdminPartner(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	partner, err := h.PartnerService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, partner)
}

// CurationRequest is the curation decision payload.
type CurationRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetPartnerCuration applies a curation decision.
func (h *Handler) SetPartnerCuration(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req CurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	partner, err := h.PartnerService.SetCurationStatus(id, strings.ToUpper(strings.TrimSpace(req.Status)))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, partner)
}

// TierRequest is the tier change payload.
type TierRequest struct {
	Tier string `json:"tier" binding:"required"`
}

// SetPartnerTier moves a partner between tiers.
func (h *Handler) SetPartnerTier(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req TierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	partner, err := h.PartnerService.SetTier(id, strings.ToUpper(strings.TrimSpace(req.Tier)))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, partner)
}

// DeletePartner removes a partner registration.
func (h *Handler) DeletePartner(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.PartnerService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// LookupCNPJ queries the company registry for curation support data.
func (h *Handler) LookupCNPJ(c *gin.Context) {
	cnpj := strings.TrimSpace(c.Query("cnpj"))
	if err := service.ValidateCNPJ(cnpj); err != nil {
		respondError(c, response.CodeBadRequest, "invalid CNPJ", nil)
		return
	}

	info, err := h.CNPJLookup.Lookup(c.Request.Context(), cnpj)
	if err != nil {
		switch {
		case errors.Is(err, cnpjlookup.ErrNotFound):
			respondError(c, response.CodeNotFound, "CNPJ not found in registry", nil)
		case errors.Is(err, cnpjlookup.ErrUnavailable):
			respondError(c, response.CodeInternal, "registry unavailable", err)
		default:
			respondError(c, response.CodeInternal, "registry lookup failed", err)
		}
		return
	}
	response.Success(c, info)
}

func paramID(c *gin.Context) (uint, bool) {
	raw, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || raw == 0 {
		respondError(c, response.CodeBadRequest, "invalid id", err)
		return 0, false
	}
	return uint(raw), true
}
