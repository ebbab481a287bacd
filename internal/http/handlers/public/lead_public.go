package public

import (
	"github.com/zopumarket/zopumarket/internal/http/handlers/shared"
	"github.com/zopumarket/zopumarket/internal/http/response"
	"github.com/zopumarket/zopumarket/internal/service"

	"github.com/gin-gonic/gin"
)

// GetCaptcha issues an image captcha for public forms.
func (h *Handler) GetCaptcha(c *gin.Context) {
	if h.CaptchaService == nil || !h.CaptchaService.Enabled() {
		response.Success(c, gin.H{"enabled": false})
		return
	}
	challenge, err := h.CaptchaService.GenerateChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "captcha generation failed", err)
		return
	}
	response.Success(c, challenge)
}

// SubmitLeadRequest is the public lead form payload.
type SubmitLeadRequest struct {
	OfferID        uint                         `json:"offer_id" binding:"required"`
	Name           string                       `json:"name" binding:"required"`
	Company        string                       `json:"company"`
	Email          string                       `json:"email" binding:"required"`
	Phone          string                       `json:"phone"`
	Message        string                       `json:"message"`
	CaptchaPayload shared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// SubmitLead files a lead request against a LEAD_FORM offer.
func (h *Handler) SubmitLead(c *gin.Context) {
	var req SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	if h.CaptchaService != nil && h.CaptchaService.Enabled() {
		if captchaErr := h.CaptchaService.Verify(req.CaptchaPayload.ToServicePayload()); captchaErr != nil {
			respondServiceError(c, captchaErr)
			return
		}
	}

	lead, err := h.LeadService.Submit(service.SubmitLeadInput{
		OfferID:  req.OfferID,
		Name:     req.Name,
		Company:  req.Company,
		Email:    req.Email,
		Phone:    req.Phone,
		Message:  req.Message,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"id":     lead.ID,
		"status": lead.Status,
	})
}
