package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zopumarket/zopumarket/internal/logger"
	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/provider"
	"github.com/zopumarket/zopumarket/internal/queue"
	"github.com/zopumarket/zopumarket/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles background tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register binds task handlers.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskReferralNotifyEmail, c.handleReferralNotifyEmail)
	mux.HandleFunc(queue.TaskPartnerProvisionUser, c.handlePartnerProvisionUser)
	mux.HandleFunc(queue.TaskCurationNotifyEmail, c.handleCurationNotifyEmail)
	mux.HandleFunc(queue.TaskAnalyticsReportExport, c.handleAnalyticsReportExport)
}

func (c *Consumer) handleReferralNotifyEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_referral_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ReferralNotifyEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_referral_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.ReferralID == 0 {
		logger.Debugw("worker_referral_email_skip_invalid_payload", "referral_id", payload.ReferralID)
		return nil
	}
	referral, err := c.ReferralRepo.GetByID(payload.ReferralID)
	if err != nil {
		logger.Warnw("worker_referral_email_fetch_failed", "referral_id", payload.ReferralID, "error", err)
		return err
	}
	if referral == nil {
		logger.Debugw("worker_referral_email_skip_not_found", "referral_id", payload.ReferralID)
		return nil
	}
	receiver := strings.TrimSpace(referral.Partner.ContactEmail)
	if receiver == "" {
		logger.Debugw("worker_referral_email_skip_empty_receiver",
			"referral_id", referral.ID,
			"partner_id", referral.PartnerID,
		)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_referral_email_skip_email_service_nil", "referral_id", referral.ID)
		return nil
	}
	input := buildReferralEmailInput(referral, payload.Event)
	input.To = receiver
	if err := c.EmailService.SendReferralNotification(input); err != nil {
		logger.Warnw("worker_referral_email_send_failed",
			"referral_id", referral.ID,
			"partner_id", referral.PartnerID,
			"event", payload.Event,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handlePartnerProvisionUser(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_provision_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PartnerProvisionUserPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_provision_unmarshal_failed", "error", err)
		return err
	}
	if payload.PartnerID == 0 {
		logger.Debugw("worker_provision_skip_invalid_payload", "partner_id", payload.PartnerID)
		return nil
	}
	partner, err := c.PartnerRepo.GetByID(payload.PartnerID)
	if err != nil {
		logger.Warnw("worker_provision_fetch_partner_failed", "partner_id", payload.PartnerID, "error", err)
		return err
	}
	if partner == nil {
		logger.Debugw("worker_provision_skip_partner_not_found", "partner_id", payload.PartnerID)
		return nil
	}
	operator, password, err := c.UserAuthService.ProvisionPartnerOperator(partner)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			logger.Debugw("worker_provision_skip_operator_exists",
				"partner_id", partner.ID,
				"contact_email", partner.ContactEmail,
			)
			return nil
		}
		logger.Warnw("worker_provision_failed", "partner_id", partner.ID, "error", err)
		return err
	}
	if password == "" {
		logger.Debugw("worker_provision_skip_already_provisioned",
			"partner_id", partner.ID,
			"operator_user_id", operator.ID,
		)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_provision_skip_email_service_nil", "partner_id", partner.ID)
		return nil
	}
	if err := c.EmailService.SendOperatorCredentials(partner.ContactEmail, partner.CompanyName, operator.Email, password); err != nil {
		logger.Warnw("worker_provision_credentials_send_failed",
			"partner_id", partner.ID,
			"operator_user_id", operator.ID,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleCurationNotifyEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_curation_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CurationNotifyEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_curation_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.PartnerID == 0 {
		logger.Debugw("worker_curation_email_skip_invalid_payload", "partner_id", payload.PartnerID)
		return nil
	}
	partner, err := c.PartnerRepo.GetByID(payload.PartnerID)
	if err != nil {
		logger.Warnw("worker_curation_email_fetch_partner_failed", "partner_id", payload.PartnerID, "error", err)
		return err
	}
	if partner == nil {
		logger.Debugw("worker_curation_email_skip_partner_not_found", "partner_id", payload.PartnerID)
		return nil
	}
	receiver := strings.TrimSpace(partner.ContactEmail)
	if receiver == "" {
		logger.Debugw("worker_curation_email_skip_empty_receiver", "partner_id", partner.ID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_curation_email_skip_email_service_nil", "partner_id", partner.ID)
		return nil
	}
	if err := c.EmailService.SendCurationDecision(receiver, partner.CompanyName, payload.Decision); err != nil {
		logger.Warnw("worker_curation_email_send_failed",
			"partner_id", partner.ID,
			"decision", payload.Decision,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleAnalyticsReportExport(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_report_export_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.AnalyticsReportExportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_report_export_unmarshal_failed", "error", err)
		return err
	}
	if c.ReportService == nil {
		logger.Warnw("worker_report_export_skip_report_service_nil", "partner_id", payload.PartnerID)
		return nil
	}
	outputPath := strings.TrimSpace(payload.OutputPath)
	if outputPath == "" {
		outputPath = defaultExportPath(payload.PartnerID, time.Now())
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		logger.Warnw("worker_report_export_mkdir_failed", "path", outputPath, "error", err)
		return err
	}
	file, err := os.Create(outputPath)
	if err != nil {
		logger.Warnw("worker_report_export_create_failed", "path", outputPath, "error", err)
		return err
	}
	defer file.Close()

	if err := c.ReportService.ExportCSV(payload.PartnerID, file); err != nil {
		logger.Warnw("worker_report_export_failed",
			"partner_id", payload.PartnerID,
			"path", outputPath,
			"error", err,
		)
		return err
	}
	logger.Infow("worker_report_export_done",
		"partner_id", payload.PartnerID,
		"requested_by", payload.RequestedBy,
		"path", outputPath,
	)
	return nil
}

func buildReferralEmailInput(referral *models.Referral, event string) service.ReferralEmailInput {
	input := service.ReferralEmailInput{
		PartnerName: referral.Partner.CompanyName,
		BuyerName:   referral.BuyerName,
		OfferTitle:  referral.Offer.Title,
		Event:       strings.TrimSpace(event),
	}
	if referral.ExpectedValue > 0 {
		input.ExpectedValue = service.FormatCentavosBRL(referral.ExpectedValue)
	}
	if !referral.AckDeadline.IsZero() {
		input.AckDeadline = referral.AckDeadline.Format("02/01/2006 15:04")
	}
	return input
}

func defaultExportPath(partnerID uint, now time.Time) string {
	name := fmt.Sprintf("referrals-%s.csv", now.Format("20060102-150405"))
	if partnerID != 0 {
		name = fmt.Sprintf("referrals-partner-%d-%s.csv", partnerID, now.Format("20060102-150405"))
	}
	return filepath.Join("exports", name)
}
