package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/queue"
	"github.com/zopumarket/zopumarket/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type referralTestEnv struct {
	db           *gorm.DB
	referralRepo repository.ReferralRepository
	offerRepo    repository.OfferRepository
	partnerRepo  repository.PartnerRepository
	service      *ReferralService
}

func newReferralTestEnv(t *testing.T) *referralTestEnv {
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

	env := &referralTestEnv{
		db:           db,
		referralRepo: repository.NewReferralRepository(db),
		offerRepo:    repository.NewOfferRepository(db),
		partnerRepo:  repository.NewPartnerRepository(db),
	}
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}
	env.service = NewReferralService(env.referralRepo, env.offerRepo, env.partnerRepo, queueClient, 120)
	return env
}

func (env *referralTestEnv) seedPartnerAndOffer(t *testing.T, curationStatus string, feePercent int) *models.Offer {
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
	offer := &models.Offer{
		Slug:              fmt.Sprintf("offer-%s", t.Name()),
		Title:             "Implantação CRM",
		PartnerID:         partner.ID,
		OfferType:         constants.OfferTypeServiceStandard,
		SaleMode:          constants.SaleModeLeadForm,
		SuccessFeePercent: feePercent,
		IsActive:          true,
		Version:           1,
	}
	if err := env.offerRepo.Create(offer, nil); err != nil {
		t.Fatalf("create offer failed: %v", err)
	}
	return offer
}

func TestReferralCreateFreezesExpectedFee(t *testing.T) {
	env := newReferralTestEnv(t)
	offer := env.seedPartnerAndOffer(t, constants.CurationStatusApproved, 15)

	before := time.Now()
	referral, err := env.service.Create(CreateReferralInput{
		OfferID:       offer.ID,
		BuyerName:     "Joana Prado",
		BuyerCompany:  "Prado Ltda",
		ExpectedValue: 1000000,
	})
	if err != nil {
		t.Fatalf("create referral failed: %v", err)
	}

	if referral.Status != constants.ReferralStatusSent {
		t.Fatalf("status = %q, want SENT", referral.Status)
	}
	if referral.SuccessFeePercentAtSent != 15 {
		t.Fatalf("frozen percent = %d, want 15", referral.SuccessFeePercentAtSent)
	}
	if referral.SuccessFeeExpected != 150000 {
		t.Fatalf("expected fee = %d, want 150000", referral.SuccessFeeExpected)
	}
	wantDeadline := before.Add(120 * time.Hour)
	if referral.AckDeadline.Before(wantDeadline.Add(-time.Minute)) || referral.AckDeadline.After(wantDeadline.Add(time.Minute)) {
		t.Fatalf("ack deadline %v not near %v", referral.AckDeadline, wantDeadline)
	}
}

func TestReferralCreateRejectsUnapprovedPartner(t *testing.T) {
	env := newReferralTestEnv(t)
	offer := env.seedPartnerAndOffer(t, constants.CurationStatusPending, 15)

	_, err := env.service.Create(CreateReferralInput{
		OfferID:       offer.ID,
		BuyerName:     "Joana Prado",
		ExpectedValue: 500000,
	})
	if !errors.Is(err, ErrPartnerNotActive) {
		t.Fatalf("expected ErrPartnerNotActive, got %v", err)
	}
}

func TestReferralUpdateStatusHappyPath(t *testing.T) {
	env := newReferralTestEnv(t)
	offer := env.seedPartnerAndOffer(t, constants.CurationStatusApproved, 15)
	referral, err := env.service.Create(CreateReferralInput{
		OfferID:       offer.ID,
		BuyerName:     "Joana Prado",
		ExpectedValue: 1000000,
	})
	if err != nil {
		t.Fatalf("create referral failed: %v", err)
	}

	actor := ReferralActor{PartnerID: referral.PartnerID}
	updated, err := env.service.UpdateStatus(referral.ID, actor, UpdateStatusInput{
		NewStatus: constants.ReferralStatusAcked,
		Version:   referral.Version,
	})
	if err != nil {
		t.Fatalf("ack failed: %v", err)
	}
	if updated.Status != constants.ReferralStatusAcked {
		t.Fatalf("status = %q, want ACKED", updated.Status)
	}
	if updated.Version != referral.Version+1 {
		t.Fatalf("version = %d, want %d", updated.Version, referral.Version+1)
	}
}

func TestReferralUpdateStatusRejectsInvalidTransition(t *testing.T) {
	env := newReferralTestEnv(t)
	offer := env.seedPartnerAndOffer(t, constants.CurationStatusApproved, 15)
	referral, err := env.service.Create(CreateReferralInput{
		OfferID:       offer.ID,
		BuyerName:     "Joana Prado",
		ExpectedValue: 1000000,
	})
	if err != nil {
		t.Fatalf("create referral failed: %v", err)
	}

	actor := ReferralActor{PartnerID: referral.PartnerID}
	_, err = env.service.UpdateStatus(referral.ID, actor, UpdateStatusInput{
		NewStatus: constants.ReferralStatusWon,
		Version:   referral.Version,
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for SENT->WON, got %v", err)
	}
}

func TestReferralWonUsesCurrentOfferPercent(t *testing.T) {
	env := newReferralTestEnv(t)
	offer := env.seedPartnerAndOffer(t, constants.CurationStatusApproved, 15)
	referral, err := env.service.Create(CreateReferralInput{
		OfferID:       offer.ID,
		BuyerName:     "Joana Prado",
		ExpectedValue: 1000000,
	})
	if err != nil {
		t.Fatalf("create referral failed: %v", err)
	}

	// Partner renegotiates the fee while the deal is in flight.
	rows, err := env.offerRepo.UpdateWithVersion(offer.ID, offer.Version, map[string]interface{}{
		"success_fee_percent": 20,
	})
	if err != nil || rows == 0 {
		t.Fatalf("offer fee update failed: rows=%d err=%v", rows, err)
	}

	actor := ReferralActor{PartnerID: referral.PartnerID}
	current := referral
	for _, status := range []string{constants.ReferralStatusAcked, constants.ReferralStatusInNegotiation} {
		current, err = env.service.UpdateStatus(referral.ID, actor, UpdateStatusInput{
			NewStatus: status,
			Version:   current.Version,
		})
		if err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
	}

	wonValue := int64(800000)
	won, err := env.service.UpdateStatus(referral.ID, actor, UpdateStatusInput{
		NewStatus: constants.ReferralStatusWon,
		WonValue:  &wonValue,
		Version:   current.Version,
	})
	if err != nil {
		t.Fatalf("won transition failed: %v", err)
	}
	if won.SuccessFeeExpected != 150000 {
		t.Fatalf("expected fee changed: %d", won.SuccessFeeExpected)
	}
	if won.SuccessFeeRealized == nil || *won.SuccessFeeRealized != 160000 {
		t.Fatalf("realized fee = %v, want 160000", won.SuccessFeeRealized)
	}
	if won.SuccessFeePercentAtWon == nil || *won.SuccessFeePercentAtWon != 20 {
		t.Fatalf("percent at won = %v, want 20", won.SuccessFeePercentAtWon)
	}
}

func TestReferralWonRequiresValue(t *testing.T) {
	env := newReferralTestEnv(t)
	offer := env.seedPartnerAndOffer(t, constants.CurationStatusApproved, 15)
	referral, err := env.service.Create(CreateReferralInput{
		OfferID:       offer.ID,
		BuyerName:     "Joana Prado",
		ExpectedValue: 1000000,
	})
	if err != nil {
		t.Fatalf("create referral failed: %v", err)
	}

	actor := ReferralActor{PartnerID: referral.PartnerID}
	acked, err := env.service.UpdateStatus(referral.ID, actor, UpdateStatusInput{
		NewStatus: constants.ReferralStatusAcked,
		Version:   referral.Version,
	})
	if err != nil {
		t.Fatalf("ack failed: %v", err)
	}

	_, err = env.service.UpdateStatus(referral.ID, actor, UpdateStatusInput{
		NewStatus: constants.ReferralStatusWon,
		Version:   acked.Version,
	})
	if !errors.Is(err, ErrWonValueRequired) {
		t.Fatalf("expected ErrWonValueRequired, got %v", err)
	}
}

func TestReferralUpdateStatusVersionConflict(t *testing.T) {
	env := newReferralTestEnv(t)
	offer := env.seedPartnerAndOffer(t, constants.CurationStatusApproved, 15)
	referral, err := env.service.Create(CreateReferralInput{
		OfferID:       offer.ID,
		BuyerName:     "Joana Prado",
		ExpectedValue: 1000000,
	})
	if err != nil {
		t.Fatalf("create referral failed: %v", err)
	}

	actor := ReferralActor{PartnerID: referral.PartnerID}
	if _, err := env.service.UpdateStatus(referral.ID, actor, UpdateStatusInput{
		NewStatus: constants.ReferralStatusAcked,
		Version:   referral.Version,
	}); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	// Same stale version again: the row moved on, the write must not land.
	_, err = env.service.UpdateStatus(referral.ID, actor, UpdateStatusInput{
		NewStatus: constants.ReferralStatusAcked,
		Version:   referral.Version,
	})
	if !errors.Is(err, ErrVersionConflict) && !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected conflict on stale version, got %v", err)
	}
}

func TestReferralUpdateStatusForbiddenForOtherPartner(t *testing.T) {
	env := newReferralTestEnv(t)
	offer := env.seedPartnerAndOffer(t, constants.CurationStatusApproved, 15)
	referral, err := env.service.Create(CreateReferralInput{
		OfferID:       offer.ID,
		BuyerName:     "Joana Prado",
		ExpectedValue: 1000000,
	})
	if err != nil {
		t.Fatalf("create referral failed: %v", err)
	}

	stranger := ReferralActor{PartnerID: referral.PartnerID + 99}
	_, err = env.service.UpdateStatus(referral.ID, stranger, UpdateStatusInput{
		NewStatus: constants.ReferralStatusAcked,
		Version:   referral.Version,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestReferralSweepOverdueAndLateAck(t *testing.T) {
	env := newReferralTestEnv(t)
	offer := env.seedPartnerAndOffer(t, constants.CurationStatusApproved, 15)

	past := time.Now().Add(-time.Hour)
	referral := &models.Referral{
		OfferID:                 offer.ID,
		PartnerID:               offer.PartnerID,
		BuyerName:               "Joana Prado",
		Status:                  constants.ReferralStatusSent,
		ExpectedValue:           1000000,
		SuccessFeePercentAtSent: 15,
		SuccessFeeExpected:      150000,
		AckDeadline:             past,
		LastStatusUpdate:        past.Add(-120 * time.Hour),
		Version:                 1,
	}
	if err := env.referralRepo.Create(referral); err != nil {
		t.Fatalf("create referral failed: %v", err)
	}

	flipped, err := env.service.SweepOverdue(time.Now())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if flipped != 1 {
		t.Fatalf("flipped = %d, want 1", flipped)
	}

	swept, err := env.referralRepo.GetByID(referral.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if swept.Status != constants.ReferralStatusOverdue {
		t.Fatalf("status = %q, want OVERDUE", swept.Status)
	}

	// A late acknowledgement is still accepted after the sweep.
	actor := ReferralActor{PartnerID: referral.PartnerID}
	acked, err := env.service.UpdateStatus(referral.ID, actor, UpdateStatusInput{
		NewStatus: constants.ReferralStatusAcked,
		Version:   swept.Version,
	})
	if err != nil {
		t.Fatalf("late ack failed: %v", err)
	}
	if acked.Status != constants.ReferralStatusAcked {
		t.Fatalf("status = %q, want ACKED", acked.Status)
	}
}

func TestReferralUpdateStatusRejectsOverdueTarget(t *testing.T) {
	env := newReferralTestEnv(t)
	offer := env.seedPartnerAndOffer(t, constants.CurationStatusApproved, 15)
	referral, err := env.service.Create(CreateReferralInput{
		OfferID:       offer.ID,
		BuyerName:     "Joana Prado",
		ExpectedValue: 1000000,
	})
	if err != nil {
		t.Fatalf("create referral failed: %v", err)
	}

	// OVERDUE belongs to the sweep alone; callers cannot set it, not even
	// an admin actor.
	for _, actor := range []ReferralActor{{IsAdmin: true}, {PartnerID: referral.PartnerID}} {
		_, err = env.service.UpdateStatus(referral.ID, actor, UpdateStatusInput{
			NewStatus: constants.ReferralStatusOverdue,
			Version:   referral.Version,
		})
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition for SENT->OVERDUE, got %v", err)
		}
	}

	reloaded, err := env.referralRepo.GetByID(referral.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Status != constants.ReferralStatusSent {
		t.Fatalf("status = %q, want SENT", reloaded.Status)
	}
}
