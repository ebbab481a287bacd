package admin

import (
	"strconv"

	"github.com/zopumarket/zopumarket/internal/http/response"
	"github.com/zopumarket/zopumarket/internal/repository"
	"github.com/zopumarket/zopumarket/internal/service"

	"github.com/gin-gonic/gin"
)

// PartnerCaseRequest is the create/update payload for success cases.
type PartnerCaseRequest struct {
	PartnerID   uint                     `json:"partner_id" binding:"required"`
	Title       string                   `json:"title" binding:"required"`
	ClientName  string                   `json:"client_name"`
	Segment     string                   `json:"segment"`
	Summary     string                   `json:"summary"`
	Results     []map[string]interface{} `json:"results"`
	IsPublished *bool                    `json:"is_published"`
	SortOrder   int                      `json:"sort_order"`
}

func (r PartnerCaseRequest) toServiceInput() service.PartnerCaseInput {
	return service.PartnerCaseInput{
		PartnerID:   r.PartnerID,
		Title:       r.Title,
		ClientName:  r.ClientName,
		Segment:     r.Segment,
		Summary:     r.Summary,
		Results:     r.Results,
		IsPublished: r.IsPublished,
		SortOrder:   r.SortOrder,
	}
}

// CreatePartnerCase adds a success case.
func (h *Handler) CreatePartnerCase(c *gin.Context) {
	var req PartnerCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	partnerCase, err := h.PartnerCaseService.Create(req.toServiceInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, partnerCase)
}

// UpdatePartnerCase edits a success case.
func (h *Handler) UpdatePartnerCase(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req PartnerCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	partnerCase, err := h.PartnerCaseService.Update(id, req.toServiceInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, partnerCase)
}

// DeletePartnerCase removes a success case.
func (h *Handler) DeletePartnerCase(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.PartnerCaseService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetAdminPartnerCases pages success cases.
func (h *Handler) GetAdminPartnerCases(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.PartnerCaseListFilter{
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("partner_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid partner_id", err)
			return
		}
		filter.PartnerID = uint(parsed)
	}

	cases, total, err := h.PartnerCaseService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "case fetch failed", err)
		return
	}

	response.SuccessWithPage(c, cases, response.NewPagination(page, pageSize, total))
}
