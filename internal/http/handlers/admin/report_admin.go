package admin

import (
	"fmt"
	"strconv"
	"time"

	"github.com/zopumarket/zopumarket/internal/http/response"
	"github.com/zopumarket/zopumarket/internal/queue"

	"github.com/gin-gonic/gin"
)

// GetReportSummary returns the commission pipeline totals.
func (h *Handler) GetReportSummary(c *gin.Context) {
	summary, err := h.ReportService.Summary()
	if err != nil {
		respondError(c, response.CodeInternal, "report fetch failed", err)
		return
	}
	response.Success(c, summary)
}

// GetReportByCategory returns referral conversion per category.
func (h *Handler) GetReportByCategory(c *gin.Context) {
	rows, err := h.ReportService.ByCategory()
	if err != nil {
		respondError(c, response.CodeInternal, "report fetch failed", err)
		return
	}
	response.Success(c, rows)
}

// GetReportAging buckets in-progress referrals by age.
func (h *Handler) GetReportAging(c *gin.Context) {
	buckets, err := h.ReportService.Aging(time.Now())
	if err != nil {
		respondError(c, response.CodeInternal, "report fetch failed", err)
		return
	}
	response.Success(c, buckets)
}

// GetReportMonthly returns the expected vs realized monthly series.
func (h *Handler) GetReportMonthly(c *gin.Context) {
	points, err := h.ReportService.MonthlyEvolution(time.Now())
	if err != nil {
		respondError(c, response.CodeInternal, "report fetch failed", err)
		return
	}
	response.Success(c, points)
}

// GetReportByPartner returns commission totals per partner.
func (h *Handler) GetReportByPartner(c *gin.Context) {
	var partnerID uint
	if raw := c.Query("partner_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid partner_id", err)
			return
		}
		partnerID = uint(parsed)
	}

	rows, err := h.ReportService.ByPartner(partnerID)
	if err != nil {
		respondError(c, response.CodeInternal, "report fetch failed", err)
		return
	}
	response.Success(c, rows)
}

// ExportReportCSV streams the referral ledger as CSV with pt-BR money
// formatting. With async=1 the export is rendered by the worker instead.
func (h *Handler) ExportReportCSV(c *gin.Context) {
	var partnerID uint
	if raw := c.Query("partner_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid partner_id", err)
			return
		}
		partnerID = uint(parsed)
	}

	if c.Query("async") == "1" {
		if !h.QueueClient.Enabled() {
			respondError(c, response.CodeBadRequest, "background export unavailable, queue disabled", nil)
			return
		}
		adminID, ok := getAdminID(c)
		if !ok {
			return
		}
		if err := h.QueueClient.EnqueueAnalyticsReportExport(queue.AnalyticsReportExportPayload{
			PartnerID:   partnerID,
			RequestedBy: adminID,
		}); err != nil {
			respondError(c, response.CodeInternal, "background export enqueue failed", err)
			return
		}
		response.Success(c, gin.H{"status": "queued"})
		return
	}

	filename := fmt.Sprintf("referrals-%s.csv", time.Now().Format("20060102-150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	if err := h.ReportService.ExportCSV(partnerID, c.Writer); err != nil {
		requestLog(c).Errorw("report_export_failed", "error", err)
	}
}
