package queue

import (
	"encoding/json"

	"github.com/zopumarket/zopumarket/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskReferralNotifyEmail notifies a partner about a referral event.
	TaskReferralNotifyEmail = constants.TaskReferralNotifyEmail
	// TaskPartnerProvisionUser provisions an operator account for an
	// approved partner.
	TaskPartnerProvisionUser = constants.TaskPartnerProvisionUser
	// TaskCurationNotifyEmail tells a partner about a curation decision.
	TaskCurationNotifyEmail = constants.TaskCurationNotifyEmail
	// TaskAnalyticsReportExport renders a commission CSV in the background.
	TaskAnalyticsReportExport = constants.TaskAnalyticsReportExport
)

// ReferralNotifyEmailPayload carries a referral event for email delivery.
type ReferralNotifyEmailPayload struct {
	ReferralID uint   `json:"referral_id"`
	Event      string `json:"event"` // created / status changed / overdue
}

// PartnerProvisionUserPayload triggers operator account provisioning.
type PartnerProvisionUserPayload struct {
	PartnerID uint `json:"partner_id"`
}

// CurationNotifyEmailPayload carries a curation decision for email delivery.
type CurationNotifyEmailPayload struct {
	PartnerID uint   `json:"partner_id"`
	Decision  string `json:"decision"`
}

// AnalyticsReportExportPayload requests a background CSV export.
type AnalyticsReportExportPayload struct {
	PartnerID   uint   `json:"partner_id"` // 0 means all partners
	RequestedBy uint   `json:"requested_by"`
	OutputPath  string `json:"output_path"`
}

// NewReferralNotifyEmailTask creates the referral notification task.
func NewReferralNotifyEmailTask(payload ReferralNotifyEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReferralNotifyEmail, body), nil
}

// NewPartnerProvisionUserTask creates the provisioning task.
func NewPartnerProvisionUserTask(payload PartnerProvisionUserPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPartnerProvisionUser, body), nil
}

// NewCurationNotifyEmailTask creates the curation notification task.
func NewCurationNotifyEmailTask(payload CurationNotifyEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCurationNotifyEmail, body), nil
}

// NewAnalyticsReportExportTask creates the CSV export task.
func NewAnalyticsReportExportTask(payload AnalyticsReportExportPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAnalyticsReportExport, body), nil
}
