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

type leadTestEnv struct {
	leadRepo     repository.LeadRequestRepository
	referralRepo repository.ReferralRepository
	service      *LeadService
	offer        *models.Offer
}

func newLeadTestEnv(t *testing.T, saleMode string) *leadTestEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Partner{}, &models.Offer{}, &models.OfferVariant{}, &models.Referral{}, &models.LeadRequest{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	leadRepo := repository.NewLeadRequestRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	partnerRepo := repository.NewPartnerRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}
	referralService := NewReferralService(referralRepo, offerRepo, partnerRepo, queueClient, 120)

	partner := &models.Partner{
		Slug:           "acme",
		CompanyName:    "Acme Consultoria",
		CNPJ:           "11222333000181",
		CurationStatus: constants.CurationStatusApproved,
		Tier:           constants.PartnerTierStandard,
		Version:        1,
	}
	if err := partnerRepo.Create(partner); err != nil {
		t.Fatalf("create partner failed: %v", err)
	}
	offer := &models.Offer{
		Slug:              "implantacao-crm",
		Title:             "Implantação CRM",
		PartnerID:         partner.ID,
		OfferType:         constants.OfferTypeServiceStandard,
		SaleMode:          saleMode,
		SuccessFeePercent: 15,
		IsActive:          true,
		Version:           1,
	}
	if err := offerRepo.Create(offer, nil); err != nil {
		t.Fatalf("create offer failed: %v", err)
	}

	return &leadTestEnv{
		leadRepo:     leadRepo,
		referralRepo: referralRepo,
		service:      NewLeadService(leadRepo, offerRepo, referralService),
		offer:        offer,
	}
}

func TestLeadSubmitOpensRequest(t *testing.T) {
	env := newLeadTestEnv(t, constants.SaleModeLeadForm)

	request, err := env.service.Submit(SubmitLeadInput{
		OfferID: env.offer.ID,
		Name:    "Joana Prado",
		Email:   "joana@prado.com.br",
		Message: "Quero implantar CRM para 40 usuários.",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if request.Status != constants.LeadRequestStatusOpen {
		t.Fatalf("status = %q, want open", request.Status)
	}
	if request.PartnerID != env.offer.PartnerID {
		t.Fatalf("partner id = %d, want %d", request.PartnerID, env.offer.PartnerID)
	}
}

func TestLeadSubmitRejectsCheckoutOffer(t *testing.T) {
	env := newLeadTestEnv(t, constants.SaleModeCheckout)

	_, err := env.service.Submit(SubmitLeadInput{
		OfferID: env.offer.ID,
		Name:    "Joana Prado",
		Email:   "joana@prado.com.br",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestLeadConvertCreatesReferralOnce(t *testing.T) {
	env := newLeadTestEnv(t, constants.SaleModeLeadForm)
	request, err := env.service.Submit(SubmitLeadInput{
		OfferID: env.offer.ID,
		Name:    "Joana Prado",
		Company: "Prado Ltda",
		Email:   "joana@prado.com.br",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	referral, err := env.service.Convert(request.ID, ConvertInput{ExpectedValue: 1000000})
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if referral.BuyerName != "Joana Prado" || referral.BuyerEmail != "joana@prado.com.br" {
		t.Fatalf("buyer fields not carried over: %+v", referral)
	}
	if referral.SuccessFeeExpected != 150000 {
		t.Fatalf("expected fee = %d, want 150000", referral.SuccessFeeExpected)
	}

	converted, err := env.service.Get(request.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if converted.Status != constants.LeadRequestStatusConverted {
		t.Fatalf("status = %q, want converted", converted.Status)
	}
	if converted.ReferralID == nil || *converted.ReferralID != referral.ID {
		t.Fatalf("referral back-reference = %v, want %d", converted.ReferralID, referral.ID)
	}

	_, err = env.service.Convert(request.ID, ConvertInput{ExpectedValue: 1000000})
	if !errors.Is(err, ErrLeadAlreadyConverted) {
		t.Fatalf("expected ErrLeadAlreadyConverted, got %v", err)
	}
}

func TestLeadDiscard(t *testing.T) {
	env := newLeadTestEnv(t, constants.SaleModeLeadForm)
	request, err := env.service.Submit(SubmitLeadInput{
		OfferID: env.offer.ID,
		Name:    "Joana Prado",
		Email:   "joana@prado.com.br",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if err := env.service.Discard(request.ID); err != nil {
		t.Fatalf("discard failed: %v", err)
	}
	_, err = env.service.Convert(request.ID, ConvertInput{ExpectedValue: 100})
	if !errors.Is(err, ErrLeadDiscarded) {
		t.Fatalf("expected ErrLeadDiscarded, got %v", err)
	}
}
