package repository

import (
	"time"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/models"

	"gorm.io/gorm"
)

// PartnerMetricsRow is the per-partner analytics rollup.
type PartnerMetricsRow struct {
	PartnerID    uint
	OfferViews   int64
	ProfileViews int64
	LeadSubmits  int64
}

// AnalyticsRepository is the analytics event data access interface.
type AnalyticsRepository interface {
	CreateEvent(event *models.AnalyticsEvent) error
	GetPartnerMetrics(partnerID uint, from, to time.Time) (PartnerMetricsRow, error)
	ListEvents(filter AnalyticsEventFilter) ([]models.AnalyticsEvent, int64, error)
}

// GormAnalyticsRepository is the GORM implementation.
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates an analytics repository.
func NewAnalyticsRepository(db *gorm.DB) *GormAnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

// CreateEvent appends an event row.
func (r *GormAnalyticsRepository) CreateEvent(event *models.AnalyticsEvent) error {
	return r.db.Create(event).Error
}

// GetPartnerMetrics counts events per type for one partner in a window.
func (r *GormAnalyticsRepository) GetPartnerMetrics(partnerID uint, from, to time.Time) (PartnerMetricsRow, error) {
	row := PartnerMetricsRow{PartnerID: partnerID}

	base := func(eventType string) *gorm.DB {
		return r.db.Model(&models.AnalyticsEvent{}).
			Where("partner_id = ? AND event_type = ? AND created_at >= ? AND created_at < ?",
				partnerID, eventType, from, to)
	}

	if err := base(constants.AnalyticsEventOfferView).Count(&row.OfferViews).Error; err != nil {
		return row, err
	}
	if err := base(constants.AnalyticsEventProfileView).Count(&row.ProfileViews).Error; err != nil {
		return row, err
	}
	if err := base(constants.AnalyticsEventLeadSubmit).Count(&row.LeadSubmits).Error; err != nil {
		return row, err
	}
	return row, nil
}

// ListEvents returns events plus the unpaginated total.
func (r *GormAnalyticsRepository) ListEvents(filter AnalyticsEventFilter) ([]models.AnalyticsEvent, int64, error) {
	query := r.db.Model(&models.AnalyticsEvent{})
	if filter.EventType != "" {
		query = query.Where("event_type = ?", filter.EventType)
	}
	if filter.PartnerID > 0 {
		query = query.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.OfferID > 0 {
		query = query.Where("offer_id = ?", filter.OfferID)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at < ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.AnalyticsEvent
	if err := applyPagination(query.Order("created_at desc"), filter.Page, filter.PageSize).
		Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
