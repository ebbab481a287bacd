package admin

import (
	"strconv"

	"github.com/zopumarket/zopumarket/internal/http/response"
	"github.com/zopumarket/zopumarket/internal/repository"
	"github.com/zopumarket/zopumarket/internal/service"

	"github.com/gin-gonic/gin"
)

// OfferVariantRequest is one plan of an offer.
type OfferVariantRequest struct {
	Name           string `json:"name" binding:"required"`
	UserLimit      int    `json:"user_limit"`
	PriceMonthly   *int64 `json:"price_monthly"`
	PriceQuarterly *int64 `json:"price_quarterly"`
	PriceAnnual    *int64 `json:"price_annual"`
	SortOrder      int    `json:"sort_order"`
}

// OfferRequest is the create/update payload. Monetary values are centavos.
type OfferRequest struct {
	Slug                string                   `json:"slug" binding:"required"`
	Title               string                   `json:"title" binding:"required"`
	Description         string                   `json:"description"`
	PartnerID           uint                     `json:"partner_id" binding:"required"`
	CategoryID          uint                     `json:"category_id"`
	OfferType           string                   `json:"offer_type" binding:"required"`
	SaleMode            string                   `json:"sale_mode" binding:"required"`
	Price               *int64                   `json:"price"`
	PriceMonthly        *int64                   `json:"price_monthly"`
	PriceQuarterly      *int64                   `json:"price_quarterly"`
	PriceAnnual         *int64                   `json:"price_annual"`
	BillingPeriods      []string                 `json:"billing_periods"`
	Deliverables        []map[string]interface{} `json:"deliverables"`
	FAQ                 []map[string]interface{} `json:"faq"`
	SuccessFeePercent   int                      `json:"success_fee_percent"`
	ZopuTakeRatePercent *int                     `json:"zopu_take_rate_percent"`
	PartnerSharePercent *int                     `json:"partner_share_percent"`
	IsActive            *bool                    `json:"is_active"`
	Variants            []OfferVariantRequest    `json:"variants"`
}

func (r OfferRequest) toServiceInput() service.OfferInput {
	input := service.OfferInput{
		Slug:                r.Slug,
		Title:               r.Title,
		Description:         r.Description,
		PartnerID:           r.PartnerID,
		CategoryID:          r.CategoryID,
		OfferType:           r.OfferType,
		SaleMode:            r.SaleMode,
		Price:               r.Price,
		PriceMonthly:        r.PriceMonthly,
		PriceQuarterly:      r.PriceQuarterly,
		PriceAnnual:         r.PriceAnnual,
		BillingPeriods:      r.BillingPeriods,
		Deliverables:        r.Deliverables,
		FAQ:                 r.FAQ,
		SuccessFeePercent:   r.SuccessFeePercent,
		ZopuTakeRatePercent: r.ZopuTakeRatePercent,
		PartnerSharePercent: r.PartnerSharePercent,
		IsActive:            r.IsActive,
	}
	if r.Variants != nil {
		input.Variants = make([]service.OfferVariantInput, 0, len(r.Variants))
		for _, v := range r.Variants {
			input.Variants = append(input.Variants, service.OfferVariantInput{
				Name:           v.Name,
				UserLimit:      v.UserLimit,
				PriceMonthly:   v.PriceMonthly,
				PriceQuarterly: v.PriceQuarterly,
				PriceAnnual:    v.PriceAnnual,
				SortOrder:      v.SortOrder,
			})
		}
	}
	return input
}

// CreateOffer publishes an offer for a partner.
func (h *Handler) CreateOffer(c *gin.Context) {
	var req OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	offer, err := h.OfferService.Create(req.toServiceInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, offer)
}

// UpdateOfferRequest carries the optimistic concurrency version.
type UpdateOfferRequest struct {
	OfferRequest
	Version int `json:"version"`
}

// UpdateOffer edits an offer. Checkout splits are frozen once referrals
// exist.
func (h *Handler) UpdateOffer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req UpdateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	offer, err := h.OfferService.Update(id, req.Version, req.toServiceInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, offer)
}

// GetAdminOffers pages offers.
func (h *Handler) GetAdminOffers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var partnerID, categoryID uint
	if raw := c.Query("partner_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid partner_id", err)
			return
		}
		partnerID = uint(parsed)
	}
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid category_id", err)
			return
		}
		categoryID = uint(parsed)
	}

	offers, total, err := h.OfferService.List(repository.OfferListFilter{
		Page:        page,
		PageSize:    pageSize,
		PartnerID:   partnerID,
		CategoryID:  categoryID,
		OfferType:   c.Query("offer_type"),
		SaleMode:    c.Query("sale_mode"),
		Search:      c.Query("search"),
		WithPartner: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "offer fetch failed", err)
		return
	}

	response.SuccessWithPage(c, offers, response.NewPagination(page, pageSize, total))
}

// GetAdminOffer fetches one offer.
func (h *Handler) GetAdminOffer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	offer, err := h.OfferService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, offer)
}

// DeleteOffer removes an offer, deactivating instead when referrals exist.
func (h *Handler) DeleteOffer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.OfferService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
