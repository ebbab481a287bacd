package admin

import (
	"strconv"
	"strings"

	"github.com/zopumarket/zopumarket/internal/http/response"
	"github.com/zopumarket/zopumarket/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminContracts pages contract declarations.
func (h *Handler) GetAdminContracts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.ContractListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.ToUpper(strings.TrimSpace(c.Query("status"))),
	}
	if raw := c.Query("partner_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid partner_id", err)
			return
		}
		filter.PartnerID = uint(parsed)
	}

	contracts, total, err := h.ContractService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "contract fetch failed", err)
		return
	}

	response.SuccessWithPage(c, contracts, response.NewPagination(page, pageSize, total))
}

// ContractReviewRequest is the moderation decision.
type ContractReviewRequest struct {
	Approve bool `json:"approve"`
}

// ReviewContract settles a pending contract declaration.
func (h *Handler) ReviewContract(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req ContractReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	contract, err := h.ContractService.Review(id, adminID, req.Approve)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, contract)
}
