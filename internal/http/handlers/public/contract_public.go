package public

import (
	"strconv"
	"time"

	"github.com/zopumarket/zopumarket/internal/http/response"
	"github.com/zopumarket/zopumarket/internal/service"

	"github.com/gin-gonic/gin"
)

// DeclareContractRequest is the buyer's contract declaration payload. The
// contract value is centavos and the date is a calendar day.
type DeclareContractRequest struct {
	OfferID        uint   `json:"offer_id" binding:"required"`
	ContractDate   string `json:"contract_date" binding:"required"`
	ContractValue  int64  `json:"contract_value"`
	ContractPeriod string `json:"contract_period"`
	Comments       string `json:"comments"`
}

// DeclareContract files a contract declaration for moderation.
func (h *Handler) DeclareContract(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req DeclareContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	contractDate, err := time.Parse("2006-01-02", req.ContractDate)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid contract_date, expected YYYY-MM-DD", err)
		return
	}

	contract, err := h.ContractService.Declare(userID, service.DeclareContractInput{
		OfferID:        req.OfferID,
		ContractDate:   contractDate,
		ContractValue:  req.ContractValue,
		ContractPeriod: req.ContractPeriod,
		Comments:       req.Comments,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, contract)
}

// GetMyContracts pages the user's own declarations.
func (h *Handler) GetMyContracts(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	contracts, total, err := h.ContractService.ListForUser(userID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "contract fetch failed", err)
		return
	}

	response.SuccessWithPage(c, contracts, response.NewPagination(page, pageSize, total))
}

// GetReviewEligibility reports whether the user may review a partner.
func (h *Handler) GetReviewEligibility(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	partnerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || partnerID == 0 {
		respondError(c, response.CodeBadRequest, "invalid id", err)
		return
	}

	eligible, err := h.ContractService.CanReview(userID, uint(partnerID))
	if err != nil {
		respondError(c, response.CodeInternal, "eligibility check failed", err)
		return
	}
	response.Success(c, gin.H{"eligible": eligible})
}
