package admin

import (
	"strconv"
	"time"

	"github.com/zopumarket/zopumarket/internal/http/response"
	"github.com/zopumarket/zopumarket/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminAnalyticsEvents pages raw UI events.
func (h *Handler) GetAdminAnalyticsEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.AnalyticsEventFilter{
		Page:      page,
		PageSize:  pageSize,
		EventType: c.Query("event_type"),
	}
	if raw := c.Query("partner_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid partner_id", err)
			return
		}
		filter.PartnerID = uint(parsed)
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

	events, total, err := h.AnalyticsService.ListEvents(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "event fetch failed", err)
		return
	}

	response.SuccessWithPage(c, events, response.NewPagination(page, pageSize, total))
}
