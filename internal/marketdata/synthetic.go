package marketdata

import (
	"math"
	"math/rand"
	"time"

	"covered-call-lab/internal/domain"
)

// SyntheticParams controls the generated geometric Brownian motion path.
type SyntheticParams struct {
	Seed        int64
	Start       time.Time
	Days        int     // trading days to generate
	StartPrice  float64 // first close
	AnnualDrift float64
	AnnualVol   float64
}

// GenerateSynthetic produces a deterministic daily price series from a
// seeded geometric Brownian motion, skipping weekends. The same params
// always yield byte-identical bars.
func GenerateSynthetic(p SyntheticParams) []domain.PriceBar {
	rng := rand.New(rand.NewSource(p.Seed))

	dt := 1.0 / 252.0
	drift := (p.AnnualDrift - 0.5*p.AnnualVol*p.AnnualVol) * dt
	diffusion := p.AnnualVol * math.Sqrt(dt)

	bars := make([]domain.PriceBar, 0, p.Days)
	date := domain.Day(p.Start)
	price := p.StartPrice

	for len(bars) < p.Days {
		for date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			date = date.AddDate(0, 0, 1)
		}

		open := price
		price = price * math.Exp(drift+diffusion*rng.NormFloat64())

		high := math.Max(open, price)
		low := math.Min(open, price)

		bars = append(bars, domain.PriceBar{
			Date:  date,
			Open:  open,
			High:  high,
			Low:   low,
			Close: price,
		})
		date = date.AddDate(0, 0, 1)
	}

	return bars
}

// GenerateFlat produces a series that closes at the same price every
// trading day. Useful for controlled simulations.
func GenerateFlat(start time.Time, days int, price float64) []domain.PriceBar {
	bars := make([]domain.PriceBar, 0, days)
	date := domain.Day(start)

	for len(bars) < days {
		for date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			date = date.AddDate(0, 0, 1)
		}
		bars = append(bars, domain.PriceBar{
			Date:  date,
			Open:  price,
			High:  price,
			Low:   price,
			Close: price,
		})
		date = date.AddDate(0, 0, 1)
	}

	return bars
}
