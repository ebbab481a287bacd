package worker

import (
	"strings"
	"testing"
	"time"

	"github.com/zopumarket/zopumarket/internal/models"
)

func TestBuildReferralEmailInput(t *testing.T) {
	deadline := time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)
	referral := &models.Referral{
		BuyerName:     "Carlos Mendes",
		ExpectedValue: 1234567,
		AckDeadline:   deadline,
		Partner:       models.Partner{CompanyName: "TechBridge Consultoria"},
		Offer:         models.Offer{Title: "Implantação ERP"},
	}

	input := buildReferralEmailInput(referral, "created")
	if input.PartnerName != "TechBridge Consultoria" {
		t.Fatalf("unexpected partner name: %q", input.PartnerName)
	}
	if input.BuyerName != "Carlos Mendes" {
		t.Fatalf("unexpected buyer name: %q", input.BuyerName)
	}
	if input.OfferTitle != "Implantação ERP" {
		t.Fatalf("unexpected offer title: %q", input.OfferTitle)
	}
	if input.Event != "created" {
		t.Fatalf("unexpected event: %q", input.Event)
	}
	if input.ExpectedValue != "12.345,67" {
		t.Fatalf("unexpected expected value: %q", input.ExpectedValue)
	}
	if input.AckDeadline != "15/03/2026 18:30" {
		t.Fatalf("unexpected ack deadline: %q", input.AckDeadline)
	}
}

func TestBuildReferralEmailInputOmitsEmptyFields(t *testing.T) {
	referral := &models.Referral{
		BuyerName: "Ana Lima",
		Partner:   models.Partner{CompanyName: "Conecta BPO"},
		Offer:     models.Offer{Title: "Folha terceirizada"},
	}

	input := buildReferralEmailInput(referral, "  overdue  ")
	if input.Event != "overdue" {
		t.Fatalf("event not trimmed: %q", input.Event)
	}
	if input.ExpectedValue != "" {
		t.Fatalf("expected empty value string, got %q", input.ExpectedValue)
	}
	if input.AckDeadline != "" {
		t.Fatalf("expected empty deadline string, got %q", input.AckDeadline)
	}
}

func TestDefaultExportPath(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	all := defaultExportPath(0, now)
	if !strings.HasSuffix(all, "referrals-20260102-030405.csv") {
		t.Fatalf("unexpected all-partners path: %q", all)
	}

	scoped := defaultExportPath(9, now)
	if !strings.Contains(scoped, "referrals-partner-9-") {
		t.Fatalf("unexpected scoped path: %q", scoped)
	}
}
