package public

import (
	"github.com/zopumarket/zopumarket/internal/http/response"
	"github.com/zopumarket/zopumarket/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateReviewRequest is the buyer's review payload.
type CreateReviewRequest struct {
	PartnerID       uint   `json:"partner_id" binding:"required"`
	ReviewerName    string `json:"reviewer_name"`
	ReviewerCompany string `json:"reviewer_company"`
	Rating          int    `json:"rating" binding:"required"`
	Comment         string `json:"comment"`
}

// CreateReview files a verified review. Eligibility requires an approved
// contract declaration with the partner.
func (h *Handler) CreateReview(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	review, err := h.ReviewService.Create(userID, service.CreateReviewInput{
		PartnerID:       req.PartnerID,
		ReviewerName:    req.ReviewerName,
		ReviewerCompany: req.ReviewerCompany,
		Rating:          req.Rating,
		Comment:         req.Comment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, review)
}
