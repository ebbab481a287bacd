package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type offerTestEnv struct {
	offerRepo    repository.OfferRepository
	partnerRepo  repository.PartnerRepository
	referralRepo repository.ReferralRepository
	service      *OfferService
}

func newOfferTestEnv(t *testing.T) *offerTestEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Partner{}, &models.Offer{}, &models.OfferVariant{}, &models.Referral{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	env := &offerTestEnv{
		offerRepo:    repository.NewOfferRepository(db),
		partnerRepo:  repository.NewPartnerRepository(db),
		referralRepo: repository.NewReferralRepository(db),
	}
	env.service = NewOfferService(env.offerRepo, env.partnerRepo)
	return env
}

func (env *offerTestEnv) seedPartner(t *testing.T, curationStatus string) *models.Partner {
	t.Helper()
	partner := &models.Partner{
		Slug:           fmt.Sprintf("partner-%s", t.Name()),
		CompanyName:    "Acme Consultoria",
		CNPJ:           "11222333000181",
		CurationStatus: curationStatus,
		Tier:           constants.PartnerTierStandard,
		Version:        1,
	}
	if err := env.partnerRepo.Create(partner); err != nil {
		t.Fatalf("create partner failed: %v", err)
	}
	return partner
}

func validLeadFormInput(partnerID uint, slug string) OfferInput {
	return OfferInput{
		Slug:              slug,
		Title:             "Implantação CRM",
		PartnerID:         partnerID,
		OfferType:         constants.OfferTypeServiceStandard,
		SaleMode:          constants.SaleModeLeadForm,
		SuccessFeePercent: 15,
		BillingPeriods:    []string{constants.BillingPeriodMonthly, constants.BillingPeriodAnnual},
	}
}

func TestOfferCreateLeadForm(t *testing.T) {
	env := newOfferTestEnv(t)
	partner := env.seedPartner(t, constants.CurationStatusApproved)

	offer, err := env.service.Create(validLeadFormInput(partner.ID, "implantacao-crm"))
	if err != nil {
		t.Fatalf("create offer failed: %v", err)
	}
	if offer.SuccessFeePercent != 15 {
		t.Fatalf("fee percent = %d, want 15", offer.SuccessFeePercent)
	}
	if !offer.IsActive {
		t.Fatalf("offer should default to active")
	}
}

func TestOfferCreateDerivesCheckoutSplit(t *testing.T) {
	env := newOfferTestEnv(t)
	partner := env.seedPartner(t, constants.CurationStatusApproved)

	price := int64(49900)
	input := validLeadFormInput(partner.ID, "licenca-erp")
	input.OfferType = constants.OfferTypeDigital
	input.SaleMode = constants.SaleModeCheckout
	input.Price = &price
	input.ZopuTakeRatePercent = intPtr(30)

	offer, err := env.service.Create(input)
	if err != nil {
		t.Fatalf("create offer failed: %v", err)
	}
	if offer.PartnerSharePercent == nil || *offer.PartnerSharePercent != 70 {
		t.Fatalf("partner share = %v, want 70", offer.PartnerSharePercent)
	}
}

func TestOfferCreateRejectsBadSplitSum(t *testing.T) {
	env := newOfferTestEnv(t)
	partner := env.seedPartner(t, constants.CurationStatusApproved)

	input := validLeadFormInput(partner.ID, "licenca-erp")
	input.SaleMode = constants.SaleModeCheckout
	input.ZopuTakeRatePercent = intPtr(30)
	input.PartnerSharePercent = intPtr(60)

	_, err := env.service.Create(input)
	if !errors.Is(err, ErrFeeModelInvalid) {
		t.Fatalf("expected ErrFeeModelInvalid, got %v", err)
	}
}

func TestOfferCreateRejectsUnknownBillingPeriod(t *testing.T) {
	env := newOfferTestEnv(t)
	partner := env.seedPartner(t, constants.CurationStatusApproved)

	input := validLeadFormInput(partner.ID, "implantacao-crm")
	input.BillingPeriods = []string{"WEEKLY"}

	_, err := env.service.Create(input)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestOfferCreateRejectsDuplicateSlug(t *testing.T) {
	env := newOfferTestEnv(t)
	partner := env.seedPartner(t, constants.CurationStatusApproved)

	if _, err := env.service.Create(validLeadFormInput(partner.ID, "implantacao-crm")); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := env.service.Create(validLeadFormInput(partner.ID, "implantacao-crm"))
	if !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestOfferUpdateAllowsSuccessFeeEditWithReferrals(t *testing.T) {
	env := newOfferTestEnv(t)
	partner := env.seedPartner(t, constants.CurationStatusApproved)
	offer, err := env.service.Create(validLeadFormInput(partner.ID, "implantacao-crm"))
	if err != nil {
		t.Fatalf("create offer failed: %v", err)
	}
	if err := env.referralRepo.Create(&models.Referral{
		OfferID:   offer.ID,
		PartnerID: partner.ID,
		BuyerName: "Joana Prado",
		Status:    constants.ReferralStatusSent,
		Version:   1,
	}); err != nil {
		t.Fatalf("create referral failed: %v", err)
	}

	input := validLeadFormInput(partner.ID, "implantacao-crm")
	input.SuccessFeePercent = 20
	updated, err := env.service.Update(offer.ID, offer.Version, input)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.SuccessFeePercent != 20 {
		t.Fatalf("fee percent = %d, want 20", updated.SuccessFeePercent)
	}
}

func TestOfferUpdateFreezesCheckoutSplitWithReferrals(t *testing.T) {
	env := newOfferTestEnv(t)
	partner := env.seedPartner(t, constants.CurationStatusApproved)

	price := int64(49900)
	input := validLeadFormInput(partner.ID, "licenca-erp")
	input.OfferType = constants.OfferTypeDigital
	input.SaleMode = constants.SaleModeCheckout
	input.Price = &price
	input.ZopuTakeRatePercent = intPtr(30)
	offer, err := env.service.Create(input)
	if err != nil {
		t.Fatalf("create offer failed: %v", err)
	}
	if err := env.referralRepo.Create(&models.Referral{
		OfferID:   offer.ID,
		PartnerID: partner.ID,
		BuyerName: "Joana Prado",
		Status:    constants.ReferralStatusSent,
		Version:   1,
	}); err != nil {
		t.Fatalf("create referral failed: %v", err)
	}

	input.ZopuTakeRatePercent = intPtr(40)
	input.PartnerSharePercent = nil
	_, err = env.service.Update(offer.ID, offer.Version, input)
	if !errors.Is(err, ErrOfferHasReferrals) {
		t.Fatalf("expected ErrOfferHasReferrals, got %v", err)
	}
}

func TestOfferUpdateVersionConflict(t *testing.T) {
	env := newOfferTestEnv(t)
	partner := env.seedPartner(t, constants.CurationStatusApproved)
	offer, err := env.service.Create(validLeadFormInput(partner.ID, "implantacao-crm"))
	if err != nil {
		t.Fatalf("create offer failed: %v", err)
	}

	input := validLeadFormInput(partner.ID, "implantacao-crm")
	input.Title = "Implantação CRM Plus"
	if _, err := env.service.Update(offer.ID, offer.Version, input); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	_, err = env.service.Update(offer.ID, offer.Version, input)
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestOfferDeleteDeactivatesWhenReferralsExist(t *testing.T) {
	env := newOfferTestEnv(t)
	partner := env.seedPartner(t, constants.CurationStatusApproved)
	offer, err := env.service.Create(validLeadFormInput(partner.ID, "implantacao-crm"))
	if err != nil {
		t.Fatalf("create offer failed: %v", err)
	}
	if err := env.referralRepo.Create(&models.Referral{
		OfferID:   offer.ID,
		PartnerID: partner.ID,
		BuyerName: "Joana Prado",
		Status:    constants.ReferralStatusSent,
		Version:   1,
	}); err != nil {
		t.Fatalf("create referral failed: %v", err)
	}

	if err := env.service.Delete(offer.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	reloaded, err := env.offerRepo.GetByID(offer.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded == nil {
		t.Fatalf("offer with referrals must not be removed")
	}
	if reloaded.IsActive {
		t.Fatalf("offer with referrals should be deactivated")
	}
}

func TestOfferPublicListingHidesUnapprovedPartners(t *testing.T) {
	env := newOfferTestEnv(t)
	partner := env.seedPartner(t, constants.CurationStatusPending)
	if _, err := env.service.Create(validLeadFormInput(partner.ID, "implantacao-crm")); err != nil {
		t.Fatalf("create offer failed: %v", err)
	}

	offers, total, err := env.service.ListPublic(0, "", "", 1, 20)
	if err != nil {
		t.Fatalf("public list failed: %v", err)
	}
	if total != 0 || len(offers) != 0 {
		t.Fatalf("pending partner offer leaked into public catalog: total=%d", total)
	}

	_, err = env.service.GetPublicBySlug("implantacao-crm")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unapproved partner offer, got %v", err)
	}
}

func TestOfferCreatePersistsDeliverablesAndFAQ(t *testing.T) {
	env := newOfferTestEnv(t)
	partner := env.seedPartner(t, constants.CurationStatusApproved)

	input := validLeadFormInput(partner.ID, "implantacao-crm")
	input.Deliverables = []map[string]interface{}{
		{"title": "Diagnóstico", "description": "Mapeamento do funil atual"},
		{"title": "Go-live", "description": "CRM configurado e equipe treinada"},
	}
	input.FAQ = []map[string]interface{}{
		{"question": "Qual o prazo?", "answer": "Entre 30 e 45 dias"},
	}

	offer, err := env.service.Create(input)
	if err != nil {
		t.Fatalf("create offer failed: %v", err)
	}

	stored, err := env.offerRepo.GetByID(offer.ID)
	if err != nil {
		t.Fatalf("get offer failed: %v", err)
	}
	if len(stored.Deliverables) != 2 {
		t.Fatalf("expected 2 deliverables, got %d", len(stored.Deliverables))
	}
	if stored.Deliverables[0]["title"] != "Diagnóstico" {
		t.Fatalf("unexpected deliverable title: %v", stored.Deliverables[0]["title"])
	}
	if len(stored.FAQ) != 1 || stored.FAQ[0]["question"] != "Qual o prazo?" {
		t.Fatalf("unexpected faq: %v", stored.FAQ)
	}
}
