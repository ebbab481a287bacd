package service

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/repository"

	"github.com/shopspring/decimal"
)

// ReportService assembles the commission dashboards: category rollups,
// pipeline aging, monthly evolution and CSV exports.
type ReportService struct {
	reportRepo    repository.ReportRepository
	referralRepo  repository.ReferralRepository
	monthlyWindow int
}

// NewReportService creates a report service.
func NewReportService(reportRepo repository.ReportRepository, referralRepo repository.ReferralRepository, monthlyWindow int) *ReportService {
	if monthlyWindow <= 0 {
		monthlyWindow = 12
	}
	return &ReportService{
		reportRepo:    reportRepo,
		referralRepo:  referralRepo,
		monthlyWindow: monthlyWindow,
	}
}

// Summary returns the global commission overview.
func (s *ReportService) Summary() (repository.SummaryRow, error) {
	return s.reportRepo.GetSummary()
}

// CategoryReport is a category rollup with its conversion rate.
type CategoryReport struct {
	CategoryID      uint    `json:"category_id"`
	CategoryName    string  `json:"category_name"`
	TotalLeads      int64   `json:"total_leads"`
	LeadsWon        int64   `json:"leads_won"`
	LeadsLost       int64   `json:"leads_lost"`
	LeadsInProgress int64   `json:"leads_in_progress"`
	TotalValue      int64   `json:"total_value"`
	WonValue        int64   `json:"won_value"`
	ConversionRate  float64 `json:"conversion_rate"`
}

// ByCategory rolls referrals up per offer category.
func (s *ReportService) ByCategory() ([]CategoryReport, error) {
	rows, err := s.reportRepo.GetCategoryRows()
	if err != nil {
		return nil, err
	}
	reports := make([]CategoryReport, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, CategoryReport{
			CategoryID:      row.CategoryID,
			CategoryName:    row.CategoryName,
			TotalLeads:      row.TotalLeads,
			LeadsWon:        row.LeadsWon,
			LeadsLost:       row.LeadsLost,
			LeadsInProgress: row.LeadsInProgress,
			TotalValue:      row.TotalValue,
			WonValue:        row.WonValue,
			ConversionRate:  conversionRate(row.LeadsWon, row.TotalLeads),
		})
	}
	return reports, nil
}

func conversionRate(won, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(won) / float64(total)
}

// AgingBucket counts in-flight referrals by days open.
type AgingBucket struct {
	Label         string  `json:"label"`
	Count         int64   `json:"count"`
	Percentage    float64 `json:"percentage"`
	ExpectedValue int64   `json:"expected_value"`
	FeeExpected   int64   `json:"fee_expected"`
}

var agingBucketLabels = []string{"0-7", "8-14", "15-30", "30+"}

func agingBucketIndex(days int) int {
	switch {
	case days <= 7:
		return 0
	case days <= 14:
		return 1
	case days <= 30:
		return 2
	default:
		return 3
	}
}

func buildAgingBuckets(referrals []models.Referral, now time.Time) []AgingBucket {
	buckets := make([]AgingBucket, len(agingBucketLabels))
	for i, label := range agingBucketLabels {
		buckets[i].Label = label
	}
	for _, referral := range referrals {
		days := int(now.Sub(referral.CreatedAt).Hours() / 24)
		if days < 0 {
			days = 0
		}
		idx := agingBucketIndex(days)
		buckets[idx].Count++
		buckets[idx].ExpectedValue += referral.ExpectedValue
		buckets[idx].FeeExpected += referral.SuccessFeeExpected
	}
	total := int64(len(referrals))
	if total > 0 {
		for i := range buckets {
			buckets[i].Percentage = float64(buckets[i].Count) / float64(total) * 100
		}
	}
	return buckets
}

// Aging buckets every in-flight referral by how long it has been open.
// Bucket counts always sum to the number of in-flight referrals.
func (s *ReportService) Aging(now time.Time) ([]AgingBucket, error) {
	referrals, err := s.referralRepo.ListInProgress()
	if err != nil {
		return nil, err
	}
	return buildAgingBuckets(referrals, now), nil
}

// MonthlyPoint pairs expected and realized commission for one month.
type MonthlyPoint struct {
	Month    string `json:"month"` // YYYY-MM
	Expected int64  `json:"expected"`
	Realized int64  `json:"realized"`
}

// MonthlyEvolution returns one point per month over the trailing window,
// oldest first, zero-filled for silent months.
func (s *ReportService) MonthlyEvolution(now time.Time) ([]MonthlyPoint, error) {
	from := monthStart(now).AddDate(0, -(s.monthlyWindow - 1), 0)
	to := monthStart(now).AddDate(0, 1, 0)

	expected, err := s.reportRepo.GetMonthlyExpected(from, to)
	if err != nil {
		return nil, err
	}
	realized, err := s.reportRepo.GetMonthlyRealized(from, to)
	if err != nil {
		return nil, err
	}
	return mergeMonthlySeries(from, s.monthlyWindow, expected, realized), nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func mergeMonthlySeries(from time.Time, months int, expected, realized []repository.MonthlyAmountRow) []MonthlyPoint {
	expectedByMonth := make(map[string]int64, len(expected))
	for _, row := range expected {
		expectedByMonth[row.Month] = row.Amount
	}
	realizedByMonth := make(map[string]int64, len(realized))
	for _, row := range realized {
		realizedByMonth[row.Month] = row.Amount
	}

	points := make([]MonthlyPoint, 0, months)
	for i := 0; i < months; i++ {
		month := from.AddDate(0, i, 0).Format("2006-01")
		points = append(points, MonthlyPoint{
			Month:    month,
			Expected: expectedByMonth[month],
			Realized: realizedByMonth[month],
		})
	}
	return points
}

// ByPartner rolls commission totals up per partner; partnerID zero means
// all partners.
func (s *ReportService) ByPartner(partnerID uint) ([]repository.PartnerTotalsRow, error) {
	return s.reportRepo.GetPartnerTotals(partnerID)
}

var exportCSVHeader = []string{
	"referralId", "partnerName", "status",
	"expectedValue", "wonValue",
	"successFeeExpected", "successFeeRealized",
	"createdAt", "lastStatusUpdate",
}

// ExportCSV streams the referral ledger as CSV with pt-BR currency columns.
func (s *ReportService) ExportCSV(partnerID uint, w io.Writer) error {
	rows, err := s.reportRepo.GetExportRows(partnerID)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportCSVHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatUint(uint64(row.ReferralID), 10),
			row.PartnerName,
			row.Status,
			formatCentavosBRL(row.ExpectedValue),
			formatOptionalCentavosBRL(row.WonValue),
			formatCentavosBRL(row.SuccessFeeExpected),
			formatOptionalCentavosBRL(row.SuccessFeeRealized),
			row.CreatedAt.Format(time.RFC3339),
			row.LastStatusUpdate.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// FormatCentavosBRL renders centavos as a pt-BR decimal string, dot for
// thousands and comma for cents.
func FormatCentavosBRL(centavos int64) string {
	return formatCentavosBRL(centavos)
}

func formatCentavosBRL(centavos int64) string {
	value := decimal.New(centavos, -2).StringFixed(2)

	negative := strings.HasPrefix(value, "-")
	value = strings.TrimPrefix(value, "-")

	parts := strings.SplitN(value, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := b.String() + "," + fracPart
	if negative {
		out = "-" + out
	}
	return out
}

func formatOptionalCentavosBRL(centavos *int64) string {
	if centavos == nil {
		return ""
	}
	return formatCentavosBRL(*centavos)
}
