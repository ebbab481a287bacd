package public

import (
	"strconv"

	"github.com/zopumarket/zopumarket/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCategories lists all categories for the storefront.
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.ListAll()
	if err != nil {
		respondError(c, response.CodeInternal, "category fetch failed", err)
		return
	}
	response.Success(c, categories)
}

// GetOffers pages active offers of approved partners.
func (h *Handler) GetOffers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var categoryID uint
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid category_id", err)
			return
		}
		categoryID = uint(parsed)
	}

	offers, total, err := h.OfferService.ListPublic(categoryID, c.Query("offer_type"), c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "offer fetch failed", err)
		return
	}

	response.SuccessWithPage(c, offers, response.NewPagination(page, pageSize, total))
}

// GetOfferBySlug fetches one active offer detail page.
func (h *Handler) GetOfferBySlug(c *gin.Context) {
	offer, err := h.OfferService.GetPublicBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, offer)
}
