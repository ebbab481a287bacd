package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/queue"
	"github.com/zopumarket/zopumarket/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newPartnerService(t *testing.T) (*PartnerService, repository.PartnerRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Partner{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	repo := repository.NewPartnerRepository(db)
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}
	return NewPartnerService(repo, queueClient), repo
}

func validPartnerInput(slug string) PartnerInput {
	return PartnerInput{
		Slug:         slug,
		CompanyName:  "Acme Consultoria",
		CNPJ:         "11.222.333/0001-81",
		ContactEmail: "contato@acme.com.br",
	}
}

func TestPartnerCreateNormalizesCNPJAndStartsPending(t *testing.T) {
	service, _ := newPartnerService(t)

	partner, err := service.Create(validPartnerInput("acme"))
	if err != nil {
		t.Fatalf("create partner failed: %v", err)
	}
	if partner.CNPJ != "11222333000181" {
		t.Fatalf("cnpj = %q, want normalized digits", partner.CNPJ)
	}
	if partner.CurationStatus != constants.CurationStatusPending {
		t.Fatalf("curation status = %q, want PENDING", partner.CurationStatus)
	}
	if partner.Tier != constants.PartnerTierStandard {
		t.Fatalf("tier = %q, want STANDARD default", partner.Tier)
	}
}

func TestPartnerCreateRejectsBadCNPJ(t *testing.T) {
	service, _ := newPartnerService(t)

	input := validPartnerInput("acme")
	input.CNPJ = "11.222.333/0001-80"
	_, err := service.Create(input)
	if !errors.Is(err, ErrCNPJInvalid) {
		t.Fatalf("expected ErrCNPJInvalid, got %v", err)
	}
}

func TestPartnerCreateRejectsDuplicateCNPJ(t *testing.T) {
	service, _ := newPartnerService(t)

	if _, err := service.Create(validPartnerInput("acme")); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := service.Create(validPartnerInput("acme-2"))
	if !errors.Is(err, ErrCNPJTaken) {
		t.Fatalf("expected ErrCNPJTaken, got %v", err)
	}
}

func TestPartnerCurationApproveAndInvalidTransition(t *testing.T) {
	service, _ := newPartnerService(t)
	partner, err := service.Create(validPartnerInput("acme"))
	if err != nil {
		t.Fatalf("create partner failed: %v", err)
	}

	approved, err := service.SetCurationStatus(partner.ID, constants.CurationStatusApproved)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.CurationStatus != constants.CurationStatusApproved {
		t.Fatalf("status = %q, want APPROVED", approved.CurationStatus)
	}

	// APPROVED cannot jump straight to REJECTED.
	_, err = service.SetCurationStatus(partner.ID, constants.CurationStatusRejected)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestPartnerUpdateCannotChangeCNPJ(t *testing.T) {
	service, _ := newPartnerService(t)
	partner, err := service.Create(validPartnerInput("acme"))
	if err != nil {
		t.Fatalf("create partner failed: %v", err)
	}

	input := validPartnerInput("acme")
	input.CNPJ = "06.990.590/0001-23"
	_, err = service.Update(partner.ID, partner.Version, input)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for cnpj change, got %v", err)
	}
}

func TestPartnerUpdateVersionConflict(t *testing.T) {
	service, _ := newPartnerService(t)
	partner, err := service.Create(validPartnerInput("acme"))
	if err != nil {
		t.Fatalf("create partner failed: %v", err)
	}

	input := validPartnerInput("acme")
	input.About = "Consultoria de CRM"
	if _, err := service.Update(partner.ID, partner.Version, input); err != nil {
		t.Fatalf("first update failed: %v", err)
	}
	_, err = service.Update(partner.ID, partner.Version, input)
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestPartnerPublicProfileHiddenUntilApproved(t *testing.T) {
	service, _ := newPartnerService(t)
	partner, err := service.Create(validPartnerInput("acme"))
	if err != nil {
		t.Fatalf("create partner failed: %v", err)
	}

	if _, err := service.GetPublicBySlug("acme"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound while pending, got %v", err)
	}

	if _, err := service.SetCurationStatus(partner.ID, constants.CurationStatusApproved); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	profile, err := service.GetPublicBySlug("acme")
	if err != nil {
		t.Fatalf("public profile fetch failed: %v", err)
	}
	if profile.ID != partner.ID {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestPartnerSetTier(t *testing.T) {
	service, _ := newPartnerService(t)
	partner, err := service.Create(validPartnerInput("acme"))
	if err != nil {
		t.Fatalf("create partner failed: %v", err)
	}

	upgraded, err := service.SetTier(partner.ID, constants.PartnerTierPremium)
	if err != nil {
		t.Fatalf("tier change failed: %v", err)
	}
	if upgraded.Tier != constants.PartnerTierPremium {
		t.Fatalf("tier = %q, want PREMIUM", upgraded.Tier)
	}

	if _, err := service.SetTier(partner.ID, "GOLD"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown tier, got %v", err)
	}
}
