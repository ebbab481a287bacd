package public

import (
	"strconv"

	"github.com/zopumarket/zopumarket/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetPartners pages the approved partner directory.
func (h *Handler) GetPartners(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	partners, total, err := h.PartnerService.ListPublic(c.Query("tier"), c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "partner fetch failed", err)
		return
	}

	response.SuccessWithPage(c, partners, response.NewPagination(page, pageSize, total))
}

// GetPartnerBySlug builds the public profile page: the partner record,
// its review aggregate and the published success cases.
func (h *Handler) GetPartnerBySlug(c *gin.Context) {
	partner, err := h.PartnerService.GetPublicBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	aggregate, err := h.ReviewService.Aggregate(partner.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "review aggregate failed", err)
		return
	}

	cases, _, err := h.PartnerCaseService.ListPublished(partner.ID, 1, 20)
	if err != nil {
		respondError(c, response.CodeInternal, "case fetch failed", err)
		return
	}

	response.Success(c, gin.H{
		"partner":          partner,
		"review_aggregate": aggregate,
		"cases":            cases,
	})
}

// GetPartnerReviews pages verified reviews of one partner.
func (h *Handler) GetPartnerReviews(c *gin.Context) {
	partner, err := h.PartnerService.GetPublicBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	reviews, total, err := h.ReviewService.ListForPartner(partner.ID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "review fetch failed", err)
		return
	}

	response.SuccessWithPage(c, reviews, response.NewPagination(page, pageSize, total))
}
