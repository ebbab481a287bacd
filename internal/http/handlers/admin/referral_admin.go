package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/zopumarket/zopumarket/internal/http/response"
	"github.com/zopumarket/zopumarket/internal/repository"
	"github.com/zopumarket/zopumarket/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateReferralRequest opens a referral from the console.
type CreateReferralRequest struct {
	OfferID       uint   `json:"offer_id" binding:"required"`
	BuyerName     string `json:"buyer_name" binding:"required"`
	BuyerCompany  string `json:"buyer_company"`
	BuyerEmail    string `json:"buyer_email"`
	BuyerPhone    string `json:"buyer_phone"`
	ExpectedValue int64  `json:"expected_value"`
	InternalNotes string `json:"internal_notes"`
}

// CreateReferral opens a referral in SENT with the fee snapshot.
func (h *Handler) CreateReferral(c *gin.Context) {
	var req CreateReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	referral, err := h.ReferralService.Create(service.CreateReferralInput{
		OfferID:       req.OfferID,
		BuyerName:     req.BuyerName,
		BuyerCompany:  req.BuyerCompany,
		BuyerEmail:    req.BuyerEmail,
		BuyerPhone:    req.BuyerPhone,
		ExpectedValue: req.ExpectedValue,
		InternalNotes: req.InternalNotes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, referral)
}

// GetAdminReferrals pages referrals with status and date filters.
func (h *Handler) GetAdminReferrals(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.ReferralListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		Search:   c.Query("search"),
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
	if raw := c.Query("created_from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid created_from", err)
			return
		}
		filter.CreatedFrom = &parsed
	}
	if raw := c.Query("created_to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid created_to", err)
			return
		}
		filter.CreatedTo = &parsed
	}

	referrals, total, err := h.ReferralService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "referral fetch failed", err)
		return
	}

	response.SuccessWithPage(c, referrals, response.NewPagination(page, pageSize, total))
}

// GetAdminReferral fetches one referral.
func (h *Handler) GetAdminReferral(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	referral, err := h.ReferralService.Get(id, service.ReferralActor{IsAdmin: true})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, referral)
}

// ReferralStatusRequest is the transition payload. Version must echo the
// version last read by the caller.
type ReferralStatusRequest struct {
	Status        string  `json:"status" binding:"required"`
	WonValue      *int64  `json:"won_value"`
	InternalNotes *string `json:"internal_notes"`
	Version       int     `json:"version"`
}

// UpdateReferralStatus moves a referral through the lifecycle.
func (h *Handler) UpdateReferralStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req ReferralStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	referral, err := h.ReferralService.UpdateStatus(id, service.ReferralActor{IsAdmin: true}, service.UpdateStatusInput{
		NewStatus:     strings.ToUpper(strings.TrimSpace(req.Status)),
		WonValue:      req.WonValue,
		InternalNotes: req.InternalNotes,
		Version:       req.Version,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, referral)
}
