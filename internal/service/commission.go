package service

// Commission math works on integer centavos. Division truncates toward
// zero, so a fee never rounds up against the partner.

// ComputeCommission applies an integer percent to a centavo amount.
// Negative inputs yield zero.
func ComputeCommission(valueCentavos int64, percent int) int64 {
	if valueCentavos <= 0 || percent <= 0 {
		return 0
	}
	return valueCentavos * int64(percent) / 100
}

// CheckoutSplit is the resolved take/share pair for checkout offers.
type CheckoutSplit struct {
	TakeRatePercent     int
	PartnerSharePercent int
}

// ResolveCheckoutSplit validates and completes a checkout split. When only
// one side is set, the other is derived as its complement. Both set means
// they must sum to exactly 100.
func ResolveCheckoutSplit(takeRate, partnerShare *int) (CheckoutSplit, error) {
	switch {
	case takeRate == nil && partnerShare == nil:
		return CheckoutSplit{}, ErrFeeModelInvalid
	case takeRate != nil && partnerShare != nil:
		if !validPercent(*takeRate) || !validPercent(*partnerShare) {
			return CheckoutSplit{}, ErrFeeModelInvalid
		}
		if *takeRate+*partnerShare != 100 {
			return CheckoutSplit{}, ErrFeeModelInvalid
		}
		return CheckoutSplit{TakeRatePercent: *takeRate, PartnerSharePercent: *partnerShare}, nil
	case takeRate != nil:
		if !validPercent(*takeRate) {
			return CheckoutSplit{}, ErrFeeModelInvalid
		}
		return CheckoutSplit{TakeRatePercent: *takeRate, PartnerSharePercent: 100 - *takeRate}, nil
	default:
		if !validPercent(*partnerShare) {
			return CheckoutSplit{}, ErrFeeModelInvalid
		}
		return CheckoutSplit{TakeRatePercent: 100 - *partnerShare, PartnerSharePercent: *partnerShare}, nil
	}
}

// SplitCheckoutAmount divides a checkout payment between the platform and
// the partner. The partner receives the remainder after the truncated
// platform take, so the parts always sum to the original amount.
func SplitCheckoutAmount(amountCentavos int64, split CheckoutSplit) (platform, partner int64) {
	if amountCentavos <= 0 {
		return 0, 0
	}
	platform = ComputeCommission(amountCentavos, split.TakeRatePercent)
	partner = amountCentavos - platform
	return platform, partner
}

func validPercent(p int) bool {
	return p >= 0 && p <= 100
}
