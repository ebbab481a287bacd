package service

import (
	"time"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/repository"
)

var validAnalyticsEvents = map[string]bool{
	constants.AnalyticsEventOfferView:      true,
	constants.AnalyticsEventProfileView:    true,
	constants.AnalyticsEventLeadSubmit:     true,
	constants.AnalyticsEventFavoriteToggle: true,
}

// AnalyticsService owns event tracking and the partner engagement metrics
// derived from it.
type AnalyticsService struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewAnalyticsService creates an analytics service.
func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo}
}

// TrackEventInput is one UI event.
type TrackEventInput struct {
	EventType  string
	PartnerID  uint
	OfferID    uint
	UserID     uint
	VisitorKey string
	Metadata   map[string]interface{}
}

// Track appends an event. Unknown event types are rejected rather than
// silently stored.
func (s *AnalyticsService) Track(input TrackEventInput) error {
	if !validAnalyticsEvents[input.EventType] {
		return ErrValidation
	}
	return s.analyticsRepo.CreateEvent(&models.AnalyticsEvent{
		EventType:  input.EventType,
		PartnerID:  input.PartnerID,
		OfferID:    input.OfferID,
		UserID:     input.UserID,
		VisitorKey: input.VisitorKey,
		Metadata:   input.Metadata,
	})
}

// PartnerMetrics returns a partner's engagement counters over a window.
func (s *AnalyticsService) PartnerMetrics(partnerID uint, from, to time.Time) (repository.PartnerMetricsRow, error) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, -1, 0)
	}
	return s.analyticsRepo.GetPartnerMetrics(partnerID, from, to)
}

// ListEvents pages raw events for the console.
func (s *AnalyticsService) ListEvents(filter repository.AnalyticsEventFilter) ([]models.AnalyticsEvent, int64, error) {
	return s.analyticsRepo.ListEvents(filter)
}
