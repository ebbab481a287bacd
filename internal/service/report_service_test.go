package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestBuildAgingBucketsSumsToTotal(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	referrals := []models.Referral{
		{ExpectedValue: 100, SuccessFeeExpected: 10, CreatedAt: now.Add(-2 * 24 * time.Hour)},
		{ExpectedValue: 200, SuccessFeeExpected: 20, CreatedAt: now.Add(-7 * 24 * time.Hour)},
		{ExpectedValue: 300, SuccessFeeExpected: 30, CreatedAt: now.Add(-10 * 24 * time.Hour)},
		{ExpectedValue: 400, SuccessFeeExpected: 40, CreatedAt: now.Add(-20 * 24 * time.Hour)},
		{ExpectedValue: 500, SuccessFeeExpected: 50, CreatedAt: now.Add(-45 * 24 * time.Hour)},
	}

	buckets := buildAgingBuckets(referrals, now)
	if len(buckets) != 4 {
		t.Fatalf("bucket count = %d, want 4", len(buckets))
	}

	var total int64
	for _, bucket := range buckets {
		total += bucket.Count
	}
	if total != int64(len(referrals)) {
		t.Fatalf("bucket counts sum to %d, want %d", total, len(referrals))
	}

	if buckets[0].Count != 2 || buckets[0].ExpectedValue != 300 {
		t.Fatalf("0-7 bucket = %+v", buckets[0])
	}
	if buckets[1].Count != 1 || buckets[1].ExpectedValue != 300 {
		t.Fatalf("8-14 bucket = %+v", buckets[1])
	}
	if buckets[2].Count != 1 || buckets[2].ExpectedValue != 400 {
		t.Fatalf("15-30 bucket = %+v", buckets[2])
	}
	if buckets[3].Count != 1 || buckets[3].ExpectedValue != 500 {
		t.Fatalf("30+ bucket = %+v", buckets[3])
	}

	if buckets[0].Percentage != 40 {
		t.Fatalf("0-7 percentage = %v, want 40", buckets[0].Percentage)
	}
	var percentTotal float64
	for _, bucket := range buckets {
		percentTotal += bucket.Percentage
	}
	if percentTotal != 100 {
		t.Fatalf("percentages sum to %v, want 100", percentTotal)
	}
}

func TestBuildAgingBucketsEmptyHasZeroPercentages(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	buckets := buildAgingBuckets(nil, now)
	for _, bucket := range buckets {
		if bucket.Count != 0 || bucket.Percentage != 0 {
			t.Fatalf("empty input produced non-zero bucket: %+v", bucket)
		}
	}
}

func TestBuildAgingBucketsFutureCreatedAtLandsInFirst(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	referrals := []models.Referral{
		{ExpectedValue: 100, CreatedAt: now.Add(time.Hour)},
	}
	buckets := buildAgingBuckets(referrals, now)
	if buckets[0].Count != 1 {
		t.Fatalf("future-dated referral not in first bucket: %+v", buckets)
	}
}

func TestMergeMonthlySeriesZeroFills(t *testing.T) {
	from := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	expected := []repository.MonthlyAmountRow{
		{Month: "2025-10", Amount: 1000},
		{Month: "2025-12", Amount: 3000},
	}
	realized := []repository.MonthlyAmountRow{
		{Month: "2025-12", Amount: 500},
	}

	points := mergeMonthlySeries(from, 4, expected, realized)
	if len(points) != 4 {
		t.Fatalf("point count = %d, want 4", len(points))
	}

	want := []MonthlyPoint{
		{Month: "2025-10", Expected: 1000, Realized: 0},
		{Month: "2025-11", Expected: 0, Realized: 0},
		{Month: "2025-12", Expected: 3000, Realized: 500},
		{Month: "2026-01", Expected: 0, Realized: 0},
	}
	for i, p := range points {
		if p != want[i] {
			t.Fatalf("point %d = %+v, want %+v", i, p, want[i])
		}
	}
}

func TestConversionRate(t *testing.T) {
	if got := conversionRate(0, 0); got != 0 {
		t.Fatalf("conversionRate(0, 0) = %v, want 0", got)
	}
	if got := conversionRate(3, 12); got != 0.25 {
		t.Fatalf("conversionRate(3, 12) = %v, want 0.25", got)
	}
}

func TestFormatCentavosBRL(t *testing.T) {
	cases := []struct {
		centavos int64
		want     string
	}{
		{0, "0,00"},
		{5, "0,05"},
		{150, "1,50"},
		{150000, "1.500,00"},
		{123456789, "1.234.567,89"},
		{-150000, "-1.500,00"},
	}
	for _, tc := range cases {
		if got := formatCentavosBRL(tc.centavos); got != tc.want {
			t.Fatalf("formatCentavosBRL(%d) = %q, want %q", tc.centavos, got, tc.want)
		}
	}
}

func TestByCategoryCountsOverdueAsInProgress(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Partner{}, &models.Offer{}, &models.Referral{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	category := models.Category{Slug: "crm", Name: "CRM"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	partner := models.Partner{
		Slug:           "acme",
		CompanyName:    "Acme Consultoria",
		CNPJ:           "11222333000181",
		CurationStatus: constants.CurationStatusApproved,
		Tier:           constants.PartnerTierStandard,
		Version:        1,
	}
	if err := db.Create(&partner).Error; err != nil {
		t.Fatalf("create partner failed: %v", err)
	}
	offer := models.Offer{
		Slug:       "implantacao-crm",
		Title:      "Implantação CRM",
		PartnerID:  partner.ID,
		CategoryID: category.ID,
		OfferType:  constants.OfferTypeServiceStandard,
		SaleMode:   constants.SaleModeLeadForm,
		Version:    1,
	}
	if err := db.Create(&offer).Error; err != nil {
		t.Fatalf("create offer failed: %v", err)
	}

	now := time.Now()
	wonValue := int64(8000)
	referrals := []models.Referral{
		{OfferID: offer.ID, PartnerID: partner.ID, BuyerName: "A", Status: constants.ReferralStatusSent, ExpectedValue: 1000, AckDeadline: now, LastStatusUpdate: now, Version: 1},
		{OfferID: offer.ID, PartnerID: partner.ID, BuyerName: "B", Status: constants.ReferralStatusOverdue, ExpectedValue: 2000, AckDeadline: now, LastStatusUpdate: now, Version: 1},
		{OfferID: offer.ID, PartnerID: partner.ID, BuyerName: "C", Status: constants.ReferralStatusInNegotiation, ExpectedValue: 3000, AckDeadline: now, LastStatusUpdate: now, Version: 1},
		{OfferID: offer.ID, PartnerID: partner.ID, BuyerName: "D", Status: constants.ReferralStatusWon, ExpectedValue: 8000, WonValue: &wonValue, AckDeadline: now, LastStatusUpdate: now, Version: 1},
		{OfferID: offer.ID, PartnerID: partner.ID, BuyerName: "E", Status: constants.ReferralStatusLost, ExpectedValue: 500, AckDeadline: now, LastStatusUpdate: now, Version: 1},
	}
	for i := range referrals {
		if err := db.Create(&referrals[i]).Error; err != nil {
			t.Fatalf("create referral failed: %v", err)
		}
	}

	svc := NewReportService(repository.NewReportRepository(db), repository.NewReferralRepository(db), 12)
	reports, err := svc.ByCategory()
	if err != nil {
		t.Fatalf("by category failed: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("report count = %d, want 1", len(reports))
	}

	row := reports[0]
	if row.TotalLeads != 5 || row.LeadsWon != 1 || row.LeadsLost != 1 {
		t.Fatalf("unexpected totals: %+v", row)
	}
	if row.LeadsInProgress != 3 {
		t.Fatalf("leads in progress = %d, want 3", row.LeadsInProgress)
	}
	if row.LeadsWon+row.LeadsLost+row.LeadsInProgress != row.TotalLeads {
		t.Fatalf("status counts do not sum to total: %+v", row)
	}
	if row.WonValue != 8000 {
		t.Fatalf("won value = %d, want 8000", row.WonValue)
	}
}
