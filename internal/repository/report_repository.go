package repository

import (
	"fmt"
	"time"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/models"

	"gorm.io/gorm"
)

// ReportRepository aggregates referral and commission data for dashboards.
// It only surfaces raw statistics; business shaping lives in the service
// layer.
type ReportRepository interface {
	GetCategoryRows() ([]CategoryReportRow, error)
	GetMonthlyExpected(from, to time.Time) ([]MonthlyAmountRow, error)
	GetMonthlyRealized(from, to time.Time) ([]MonthlyAmountRow, error)
	GetPartnerTotals(partnerID uint) ([]PartnerTotalsRow, error)
	GetExportRows(partnerID uint) ([]ExportRow, error)
	GetSummary() (SummaryRow, error)
}

// CategoryReportRow is the per-category referral rollup.
type CategoryReportRow struct {
	CategoryID      uint
	CategoryName    string
	TotalLeads      int64
	LeadsWon        int64
	LeadsLost       int64
	LeadsInProgress int64
	TotalValue      int64
	WonValue        int64
}

// MonthlyAmountRow is one month's commission total.
type MonthlyAmountRow struct {
	Month  string
	Amount int64
}

// PartnerTotalsRow is the per-partner previsto/realizado rollup.
type PartnerTotalsRow struct {
	PartnerID     uint
	PartnerName   string
	TotalLeads    int64
	FeeExpected   int64
	FeeRealized   int64
	ExpectedValue int64
	WonValue      int64
}

// ExportRow is one CSV export line's raw data.
type ExportRow struct {
	ReferralID         uint
	PartnerName        string
	Status             string
	ExpectedValue      int64
	WonValue           *int64
	SuccessFeeExpected int64
	SuccessFeeRealized *int64
	CreatedAt          time.Time
	LastStatusUpdate   time.Time
}

// SummaryRow is the global commission overview.
type SummaryRow struct {
	TotalReferrals   int64
	TotalExpected    int64
	TotalRealized    int64
	ReferralsWon     int64
	ReferralsLost    int64
	ReferralsOverdue int64
}

// GormReportRepository is the GORM implementation.
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a report repository.
func NewReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

func inProgressStatuses() []string {
	return []string{
		constants.ReferralStatusSent,
		constants.ReferralStatusAcked,
		constants.ReferralStatusInNegotiation,
		constants.ReferralStatusOverdue,
	}
}

// GetCategoryRows aggregates referrals per offer category. Categories with
// no referrals simply do not appear; callers zero-fill.
func (r *GormReportRepository) GetCategoryRows() ([]CategoryReportRow, error) {
	var rows []CategoryReportRow
	err := r.db.Model(&models.Referral{}).
		Select(`categories.id as category_id,
			categories.name as category_name,
			COUNT(referrals.id) as total_leads,
			COALESCE(SUM(CASE WHEN referrals.status = ? THEN 1 ELSE 0 END), 0) as leads_won,
			COALESCE(SUM(CASE WHEN referrals.status = ? THEN 1 ELSE 0 END), 0) as leads_lost,
			COALESCE(SUM(CASE WHEN referrals.status IN (?) THEN 1 ELSE 0 END), 0) as leads_in_progress,
			COALESCE(SUM(referrals.expected_value), 0) as total_value,
			COALESCE(SUM(CASE WHEN referrals.status = ? THEN referrals.won_value ELSE 0 END), 0) as won_value`,
			constants.ReferralStatusWon,
			constants.ReferralStatusLost,
			inProgressStatuses(),
			constants.ReferralStatusWon).
		Joins("JOIN offers ON offers.id = referrals.offer_id").
		Joins("JOIN categories ON categories.id = offers.category_id").
		Where("referrals.deleted_at IS NULL").
		Group("categories.id, categories.name").
		Order("categories.name asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetMonthlyExpected sums expected commission by referral creation month.
func (r *GormReportRepository) GetMonthlyExpected(from, to time.Time) ([]MonthlyAmountRow, error) {
	expr := monthExpr(r.db, "created_at")
	var rows []MonthlyAmountRow
	err := r.db.Model(&models.Referral{}).
		Select(fmt.Sprintf("%s as month, COALESCE(SUM(success_fee_expected), 0) as amount", expr)).
		Where("created_at >= ? AND created_at < ?", from, to).
		Group(expr).
		Order("month asc").
		Scan(&rows).Error
	return rows, err
}

// GetMonthlyRealized sums realized commission by WON transition month.
func (r *GormReportRepository) GetMonthlyRealized(from, to time.Time) ([]MonthlyAmountRow, error) {
	expr := monthExpr(r.db, "last_status_update")
	var rows []MonthlyAmountRow
	err := r.db.Model(&models.Referral{}).
		Select(fmt.Sprintf("%s as month, COALESCE(SUM(success_fee_realized), 0) as amount", expr)).
		Where("status = ? AND last_status_update >= ? AND last_status_update < ?",
			constants.ReferralStatusWon, from, to).
		Group(expr).
		Order("month asc").
		Scan(&rows).Error
	return rows, err
}

// GetPartnerTotals aggregates previsto/realizado per partner; a non-zero
// partnerID scopes to one partner.
func (r *GormReportRepository) GetPartnerTotals(partnerID uint) ([]PartnerTotalsRow, error) {
	query := r.db.Model(&models.Referral{}).
		Select(`partners.id as partner_id,
			partners.company_name as partner_name,
			COUNT(referrals.id) as total_leads,
			COALESCE(SUM(referrals.success_fee_expected), 0) as fee_expected,
			COALESCE(SUM(CASE WHEN referrals.status = ? THEN referrals.success_fee_realized ELSE 0 END), 0) as fee_realized,
			COALESCE(SUM(referrals.expected_value), 0) as expected_value,
			COALESCE(SUM(CASE WHEN referrals.status = ? THEN referrals.won_value ELSE 0 END), 0) as won_value`,
			constants.ReferralStatusWon, constants.ReferralStatusWon).
		Joins("JOIN partners ON partners.id = referrals.partner_id").
		Where("referrals.deleted_at IS NULL").
		Group("partners.id, partners.company_name").
		Order("partners.company_name asc")
	if partnerID > 0 {
		query = query.Where("referrals.partner_id = ?", partnerID)
	}
	var rows []PartnerTotalsRow
	err := query.Scan(&rows).Error
	return rows, err
}

// GetExportRows fetches the raw CSV export lines, oldest first.
func (r *GormReportRepository) GetExportRows(partnerID uint) ([]ExportRow, error) {
	query := r.db.Model(&models.Referral{}).
		Select(`referrals.id as referral_id,
			partners.company_name as partner_name,
			referrals.status,
			referrals.expected_value,
			referrals.won_value,
			referrals.success_fee_expected,
			referrals.success_fee_realized,
			referrals.created_at,
			referrals.last_status_update`).
		Joins("JOIN partners ON partners.id = referrals.partner_id").
		Where("referrals.deleted_at IS NULL").
		Order("referrals.created_at asc")
	if partnerID > 0 {
		query = query.Where("referrals.partner_id = ?", partnerID)
	}
	var rows []ExportRow
	err := query.Scan(&rows).Error
	return rows, err
}

// GetSummary computes the global commission overview.
func (r *GormReportRepository) GetSummary() (SummaryRow, error) {
	row := SummaryRow{}
	base := func() *gorm.DB {
		return r.db.Model(&models.Referral{})
	}
	if err := base().Count(&row.TotalReferrals).Error; err != nil {
		return row, err
	}
	if err := base().Where("status = ?", constants.ReferralStatusWon).Count(&row.ReferralsWon).Error; err != nil {
		return row, err
	}
	if err := base().Where("status = ?", constants.ReferralStatusLost).Count(&row.ReferralsLost).Error; err != nil {
		return row, err
	}
	if err := base().Where("status = ?", constants.ReferralStatusOverdue).Count(&row.ReferralsOverdue).Error; err != nil {
		return row, err
	}
	if err := base().Select("COALESCE(SUM(success_fee_expected), 0)").Scan(&row.TotalExpected).Error; err != nil {
		return row, err
	}
	if err := base().Where("status = ?", constants.ReferralStatusWon).
		Select("COALESCE(SUM(success_fee_realized), 0)").Scan(&row.TotalRealized).Error; err != nil {
		return row, err
	}
	return row, nil
}
