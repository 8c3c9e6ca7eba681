// Package pricing implements closed-form European call valuation, greeks,
// a historical-volatility IV proxy, and the transaction cost model.
// Everything here is pure computation: deterministic, no I/O.
package pricing

import (
	"fmt"
	"math"

	"covered-call-lab/internal/domain"
)

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// normPDF is the standard normal probability density function.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

// validateInputs rejects malformed pricing inputs. Negative time and
// negative volatility are errors; zero values are legal limits.
func validateInputs(spot, strike, timeYears, vol float64) error {
	switch {
	case math.IsNaN(spot) || spot <= 0:
		return fmt.Errorf("%w: spot must be > 0, got %g", domain.ErrInvalidInput, spot)
	case math.IsNaN(strike) || strike <= 0:
		return fmt.Errorf("%w: strike must be > 0, got %g", domain.ErrInvalidInput, strike)
	case math.IsNaN(timeYears) || timeYears < 0:
		return fmt.Errorf("%w: time to expiry must be >= 0, got %g", domain.ErrInvalidInput, timeYears)
	case math.IsNaN(vol) || vol < 0:
		return fmt.Errorf("%w: volatility must be >= 0, got %g", domain.ErrInvalidInput, vol)
	}
	return nil
}

// d1d2 returns the Black-Scholes d1 and d2 terms.
// Caller guarantees timeYears > 0 and vol > 0.
func d1d2(spot, strike, timeYears, vol, rate float64) (float64, float64) {
	sqrtT := math.Sqrt(timeYears)
	d1 := (math.Log(spot/strike) + (rate+0.5*vol*vol)*timeYears) / (vol * sqrtT)
	return d1, d1 - vol*sqrtT
}

// CallPrice values a European call with Black-Scholes.
// At zero time to expiry the value collapses to intrinsic max(spot-strike, 0).
// At zero volatility it collapses to the discounted intrinsic value.
func CallPrice(spot, strike, timeYears, vol, rate float64) (float64, error) {
	if err := validateInputs(spot, strike, timeYears, vol); err != nil {
		return 0, err
	}
	if timeYears == 0 {
		return math.Max(spot-strike, 0), nil
	}
	if vol == 0 {
		disc := math.Exp(-rate * timeYears)
		return math.Max(spot*disc-strike*disc, 0), nil
	}

	d1, d2 := d1d2(spot, strike, timeYears, vol, rate)
	return spot*normCDF(d1) - strike*math.Exp(-rate*timeYears)*normCDF(d2), nil
}

// Delta returns the call delta. At expiry it is 1 in the money, 0 otherwise.
func Delta(spot, strike, timeYears, vol, rate float64) (float64, error) {
	if err := validateInputs(spot, strike, timeYears, vol); err != nil {
		return 0, err
	}
	if timeYears == 0 || vol == 0 {
		if spot > strike {
			return 1, nil
		}
		return 0, nil
	}

	d1, _ := d1d2(spot, strike, timeYears, vol, rate)
	return normCDF(d1), nil
}

// Theta returns the call theta per calendar day. Zero at expiry.
func Theta(spot, strike, timeYears, vol, rate float64) (float64, error) {
	if err := validateInputs(spot, strike, timeYears, vol); err != nil {
		return 0, err
	}
	if timeYears == 0 || vol == 0 {
		return 0, nil
	}

	d1, d2 := d1d2(spot, strike, timeYears, vol, rate)
	theta := -spot*normPDF(d1)*vol/(2*math.Sqrt(timeYears)) -
		rate*strike*math.Exp(-rate*timeYears)*normCDF(d2)
	return theta / 365.0, nil
}
