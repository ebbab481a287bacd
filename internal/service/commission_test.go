package service

import (
	"errors"
	"testing"
)

func TestComputeCommission(t *testing.T) {
	cases := []struct {
		name    string
		value   int64
		percent int
		want    int64
	}{
		{name: "plain", value: 1000000, percent: 15, want: 150000},
		{name: "smaller deal", value: 800000, percent: 15, want: 120000},
		{name: "truncates", value: 999, percent: 15, want: 149},
		{name: "zero percent", value: 1000000, percent: 0, want: 0},
		{name: "zero value", value: 0, percent: 15, want: 0},
		{name: "negative value", value: -500, percent: 15, want: 0},
		{name: "full percent", value: 12345, percent: 100, want: 12345},
	}
	for _, tc := range cases {
		got := ComputeCommission(tc.value, tc.percent)
		if got != tc.want {
			t.Fatalf("%s: ComputeCommission(%d, %d) = %d, want %d", tc.name, tc.value, tc.percent, got, tc.want)
		}
	}
}

func intPtr(v int) *int { return &v }

func TestResolveCheckoutSplitDerivesComplement(t *testing.T) {
	split, err := ResolveCheckoutSplit(intPtr(30), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if split.TakeRatePercent != 30 || split.PartnerSharePercent != 70 {
		t.Fatalf("unexpected split: %+v", split)
	}

	split, err = ResolveCheckoutSplit(nil, intPtr(80))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if split.TakeRatePercent != 20 || split.PartnerSharePercent != 80 {
		t.Fatalf("unexpected split: %+v", split)
	}
}

func TestResolveCheckoutSplitRejectsBadSum(t *testing.T) {
	_, err := ResolveCheckoutSplit(intPtr(30), intPtr(60))
	if !errors.Is(err, ErrFeeModelInvalid) {
		t.Fatalf("expected ErrFeeModelInvalid, got %v", err)
	}
}

func TestResolveCheckoutSplitRejectsMissingBoth(t *testing.T) {
	_, err := ResolveCheckoutSplit(nil, nil)
	if !errors.Is(err, ErrFeeModelInvalid) {
		t.Fatalf("expected ErrFeeModelInvalid, got %v", err)
	}
}

func TestResolveCheckoutSplitRejectsOutOfRange(t *testing.T) {
	_, err := ResolveCheckoutSplit(intPtr(101), nil)
	if !errors.Is(err, ErrFeeModelInvalid) {
		t.Fatalf("expected ErrFeeModelInvalid, got %v", err)
	}
	_, err = ResolveCheckoutSplit(nil, intPtr(-1))
	if !errors.Is(err, ErrFeeModelInvalid) {
		t.Fatalf("expected ErrFeeModelInvalid, got %v", err)
	}
}

func TestSplitCheckoutAmountSumsToTotal(t *testing.T) {
	split := CheckoutSplit{TakeRatePercent: 33, PartnerSharePercent: 67}
	amounts := []int64{1, 99, 100, 101, 999999, 1000001}
	for _, amount := range amounts {
		platform, partner := SplitCheckoutAmount(amount, split)
		if platform+partner != amount {
			t.Fatalf("split of %d leaks money: platform %d + partner %d", amount, platform, partner)
		}
		if platform != amount*33/100 {
			t.Fatalf("platform take of %d = %d, want %d", amount, platform, amount*33/100)
		}
	}
}
