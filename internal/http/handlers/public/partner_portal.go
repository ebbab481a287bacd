package public

import (
	"strconv"
	"strings"
	"time"

	"github.com/zopumarket/zopumarket/internal/http/response"
	"github.com/zopumarket/zopumarket/internal/repository"
	"github.com/zopumarket/zopumarket/internal/service"

	"github.com/gin-gonic/gin"
)

// GetPortalReferrals pages the logged-in partner's referrals.
func (h *Handler) GetPortalReferrals(c *gin.Context) {
	partnerID, ok := getPartnerID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	referrals, total, err := h.ReferralService.ListForPartner(partnerID, strings.ToUpper(strings.TrimSpace(c.Query("status"))), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "referral fetch failed", err)
		return
	}

	response.SuccessWithPage(c, referrals, response.NewPagination(page, pageSize, total))
}

// GetPortalReferral fetches one referral owned by the partner.
func (h *Handler) GetPortalReferral(c *gin.Context) {
	partnerID, ok := getPartnerID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid id", err)
		return
	}

	referral, err := h.ReferralService.Get(uint(id), service.ReferralActor{PartnerID: partnerID})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, referral)
}

// PortalReferralStatusRequest is the partner-side transition payload.
type PortalReferralStatusRequest struct {
	Status        string  `json:"status" binding:"required"`
	WonValue      *int64  `json:"won_value"`
	InternalNotes *string `json:"internal_notes"`
	Version       int     `json:"version"`
}

// UpdatePortalReferralStatus lets the partner acknowledge and work a
// referral through the lifecycle.
func (h *Handler) UpdatePortalReferralStatus(c *gin.Context) {
	partnerID, ok := getPartnerID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid id", err)
		return
	}
	var req PortalReferralStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	referral, err := h.ReferralService.UpdateStatus(uint(id), service.ReferralActor{PartnerID: partnerID}, service.UpdateStatusInput{
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

// GetPortalMetrics returns the partner's engagement counters and
// commission totals.
func (h *Handler) GetPortalMetrics(c *gin.Context) {
	partnerID, ok := getPartnerID(c)
	if !ok {
		return
	}

	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid from", err)
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid to", err)
			return
		}
		to = parsed
	}

	engagement, err := h.AnalyticsService.PartnerMetrics(partnerID, from, to)
	if err != nil {
		respondError(c, response.CodeInternal, "metrics fetch failed", err)
		return
	}
	totals, err := h.ReportService.ByPartner(partnerID)
	if err != nil {
		respondError(c, response.CodeInternal, "metrics fetch failed", err)
		return
	}

	response.Success(c, gin.H{
		"engagement": engagement,
		"commission": totals,
	})
}

// GetPortalOffers pages the logged-in partner's own offers, including the
// inactive ones.
func (h *Handler) GetPortalOffers(c *gin.Context) {
	partnerID, ok := getPartnerID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	offers, total, err := h.OfferService.List(repository.OfferListFilter{
		Page:      page,
		PageSize:  pageSize,
		PartnerID: partnerID,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "offer fetch failed", err)
		return
	}

	response.SuccessWithPage(c, offers, response.NewPagination(page, pageSize, total))
}

// GetPortalContracts pages the contract declarations filed against the
// partner's offers.
func (h *Handler) GetPortalContracts(c *gin.Context) {
	partnerID, ok := getPartnerID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	contracts, total, err := h.ContractService.List(repository.ContractListFilter{
		Page:      page,
		PageSize:  pageSize,
		PartnerID: partnerID,
		Status:    strings.ToUpper(strings.TrimSpace(c.Query("status"))),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "contract fetch failed", err)
		return
	}

	response.SuccessWithPage(c, contracts, response.NewPagination(page, pageSize, total))
}
