package public

import (
	"github.com/zopumarket/zopumarket/internal/http/response"
	"github.com/zopumarket/zopumarket/internal/service"

	"github.com/gin-gonic/gin"
)

// TrackEventRequest is one UI event from the storefront.
type TrackEventRequest struct {
	EventType  string                 `json:"event_type" binding:"required"`
	PartnerID  uint                   `json:"partner_id"`
	OfferID    uint                   `json:"offer_id"`
	VisitorKey string                 `json:"visitor_key"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// TrackEvent appends a UI event. The user binding is attached when a
// session is present.
func (h *Handler) TrackEvent(c *gin.Context) {
	var req TrackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	var userID uint
	if value, ok := c.Get("user_id"); ok {
		if id, ok := value.(uint); ok {
			userID = id
		}
	}

	if err := h.AnalyticsService.Track(service.TrackEventInput{
		EventType:  req.EventType,
		PartnerID:  req.PartnerID,
		OfferID:    req.OfferID,
		UserID:     userID,
		VisitorKey: req.VisitorKey,
		Metadata:   req.Metadata,
	}); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
