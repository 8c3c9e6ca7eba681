package pricing

import (
	"errors"
	"math"
	"testing"

	"covered-call-lab/internal/domain"
)

func TestCallPrice_ZeroTimeIsIntrinsic(t *testing.T) {
	cases := []struct {
		name         string
		spot, strike float64
		want         float64
	}{
		{"in the money", 3.00, 2.50, 0.50},
		{"at the money", 2.50, 2.50, 0},
		{"out of the money", 2.00, 2.50, 0},
		{"deep in the money", 10.00, 2.50, 7.50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CallPrice(tc.spot, tc.strike, 0, 0.5, 0.045)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected intrinsic %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCallPrice_MonotonicInVolatility(t *testing.T) {
	prev := -1.0
	for _, vol := range []float64{0.10, 0.20, 0.40, 0.80, 1.60} {
		price, err := CallPrice(2.00, 2.50, 30.0/365.0, vol, 0.045)
		if err != nil {
			t.Fatalf("unexpected error at vol %v: %v", vol, err)
		}
		if price < prev {
			t.Errorf("price decreased from %v to %v as vol rose to %v", prev, price, vol)
		}
		prev = price
	}
}

func TestCallPrice_MonotonicInTime(t *testing.T) {
	prev := -1.0
	for _, dte := range []int{1, 7, 14, 30, 90, 365} {
		price, err := CallPrice(2.00, 2.50, float64(dte)/365.0, 0.50, 0.045)
		if err != nil {
			t.Fatalf("unexpected error at dte %d: %v", dte, err)
		}
		if price < prev {
			t.Errorf("price decreased from %v to %v as dte rose to %d", prev, price, dte)
		}
		prev = price
	}
}

func TestCallPrice_RejectsBadInputs(t *testing.T) {
	cases := []struct {
		name                           string
		spot, strike, timeYears, sigma float64
	}{
		{"negative time", 2.00, 2.50, -0.1, 0.5},
		{"negative volatility", 2.00, 2.50, 0.1, -0.5},
		{"zero spot", 0, 2.50, 0.1, 0.5},
		{"negative strike", 2.00, -2.50, 0.1, 0.5},
		{"NaN spot", math.NaN(), 2.50, 0.1, 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CallPrice(tc.spot, tc.strike, tc.timeYears, tc.sigma, 0.045)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestDelta_BoundsAndExpiry(t *testing.T) {
	d, err := Delta(2.00, 2.50, 30.0/365.0, 0.50, 0.045)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d <= 0 || d >= 1 {
		t.Errorf("OTM call delta should be in (0,1), got %v", d)
	}

	d, err = Delta(3.00, 2.50, 0, 0.50, 0.045)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 1 {
		t.Errorf("ITM delta at expiry should be 1, got %v", d)
	}

	d, err = Delta(2.00, 2.50, 0, 0.50, 0.045)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 0 {
		t.Errorf("OTM delta at expiry should be 0, got %v", d)
	}
}

func TestTheta_NegativeBeforeExpiryZeroAt(t *testing.T) {
	th, err := Theta(2.40, 2.50, 30.0/365.0, 0.50, 0.045)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if th >= 0 {
		t.Errorf("long call theta should be negative, got %v", th)
	}

	th, err = Theta(2.40, 2.50, 0, 0.50, 0.045)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if th != 0 {
		t.Errorf("theta at expiry should be 0, got %v", th)
	}
}

func TestCallPrice_NeverBelowIntrinsic(t *testing.T) {
	for _, spot := range []float64{1.00, 2.00, 2.50, 3.00, 5.00} {
		price, err := CallPrice(spot, 2.50, 45.0/365.0, 0.60, 0.045)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		intrinsic := math.Max(spot-2.50, 0)
		if price < intrinsic-1e-12 {
			t.Errorf("price %v below intrinsic %v at spot %v", price, intrinsic, spot)
		}
	}
}
