package admin

import (
	"strconv"
	"strings"

	"github.com/zopumarket/zopumarket/internal/http/response"
	"github.com/zopumarket/zopumarket/internal/repository"
	"github.com/zopumarket/zopumarket/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminLeads pages lead requests.
func (h *Handler) GetAdminLeads(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.LeadRequestListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.ToLower(strings.TrimSpace(c.Query("status"))),
	}
	if raw := c.Query("partner_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid partner_id", err)
			return
		}
		filter.PartnerID = uint(parsed)
	}
	if raw := c.Query("offer_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid offer_id", err)
			return
		}
		filter.OfferID = uint(parsed)
	}

	leads, total, err := h.LeadService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "lead fetch failed", err)
		return
	}

	response.SuccessWithPage(c, leads, response.NewPagination(page, pageSize, total))
}

// GetAdminLead fetches one lead request.
func (h *Handler) GetAdminLead(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	lead, err := h.LeadService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, lead)
}

// ConvertLeadRequest is the conversion payload.
type ConvertLeadRequest struct {
	ExpectedValue int64  `json:"expected_value"`
	InternalNotes string `json:"internal_notes"`
}

// ConvertLead turns an open lead into a referral.
func (h *Handler) ConvertLead(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req ConvertLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	referral, err := h.LeadService.Convert(id, service.ConvertInput{
		ExpectedValue: req.ExpectedValue,
		InternalNotes: req.InternalNotes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, referral)
}

// DiscardLead closes an open lead without conversion.
func (h *Handler) DiscardLead(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.LeadService.Discard(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"discarded": true})
}
