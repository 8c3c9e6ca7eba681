package pricing

import (
	"fmt"
	"math"

	"covered-call-lab/internal/domain"
)

// tradingDaysPerYear annualizes daily return volatility.
const tradingDaysPerYear = 252

// HistoricalVolatility returns annualized realized volatility from the
// trailing window of daily log returns ending at the last close.
// Needs window+1 closes; returns ErrInsufficientHistory otherwise.
func HistoricalVolatility(closes []float64, window int) (float64, error) {
	if window < 2 {
		return 0, fmt.Errorf("%w: volatility window must be >= 2, got %d", domain.ErrInvalidInput, window)
	}
	if len(closes) < window+1 {
		return 0, fmt.Errorf("%w: need %d closes for a %d-day window, have %d",
			domain.ErrInsufficientHistory, window+1, window, len(closes))
	}

	returns := make([]float64, window)
	start := len(closes) - window - 1
	for i := 0; i < window; i++ {
		prev, cur := closes[start+i], closes[start+i+1]
		if prev <= 0 || cur <= 0 {
			return 0, fmt.Errorf("%w: non-positive close in volatility window", domain.ErrInvalidInput)
		}
		returns[i] = math.Log(cur / prev)
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(window)

	sumSq := 0.0
	for _, r := range returns {
		d := r - mean
		sumSq += d * d
	}
	std := math.Sqrt(sumSq / float64(window))

	return std * math.Sqrt(tradingDaysPerYear), nil
}

// EstimateVolatility proxies implied volatility from trailing realized
// volatility: historical vol scaled by the IV premium multiplier (IV
// typically exceeds realized vol), floored at minVol.
func EstimateVolatility(closes []float64, window int, ivPremium, minVol float64) (float64, error) {
	hv, err := HistoricalVolatility(closes, window)
	if err != nil {
		return 0, err
	}
	return math.Max(hv*ivPremium, minVol), nil
}

// EstimateVolatilitySeries returns one IV proxy per bar. The estimate at
// index i uses only closes up to and including bar i-1's return, so there
// is no lookahead. The warmup prefix is backfilled with the first valid
// estimate; if the series never reaches window+2 bars every entry is
// defaultVol floored at minVol.
func EstimateVolatilitySeries(bars []domain.PriceBar, window int, ivPremium, minVol, defaultVol float64) []float64 {
	n := len(bars)
	series := make([]float64, n)

	closes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
	}

	fallback := math.Max(defaultVol, minVol)
	firstValid := -1
	for i := 0; i < n; i++ {
		if i < window+1 {
			continue
		}
		iv, err := EstimateVolatility(closes[:i], window, ivPremium, minVol)
		if err != nil {
			continue
		}
		series[i] = iv
		if firstValid < 0 {
			firstValid = i
		}
	}

	if firstValid < 0 {
		for i := range series {
			series[i] = fallback
		}
		return series
	}

	for i := 0; i < firstValid; i++ {
		series[i] = series[firstValid]
	}
	return series
}
