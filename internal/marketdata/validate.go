// Package marketdata loads, generates, and validates the daily price
// series a backtest consumes.
package marketdata

import (
	"fmt"
	"math"

	"covered-call-lab/internal/domain"
)

// ValidateSeries checks a daily price series for integrity before a run.
// Calendar gaps (weekends, holidays) are legal; duplicate or
// non-increasing dates and non-positive or NaN closes are not.
func ValidateSeries(bars []domain.PriceBar) error {
	if len(bars) == 0 {
		return fmt.Errorf("%w: empty price series", domain.ErrInsufficientHistory)
	}

	for i, b := range bars {
		if math.IsNaN(b.Close) || b.Close <= 0 {
			return fmt.Errorf("%w: bar %d (%s) has close %g",
				domain.ErrDataIntegrity, i, b.Date.Format("2006-01-02"), b.Close)
		}
		if i > 0 && !domain.Day(b.Date).After(domain.Day(bars[i-1].Date)) {
			return fmt.Errorf("%w: bar %d (%s) does not advance past bar %d (%s)",
				domain.ErrDataIntegrity, i, b.Date.Format("2006-01-02"),
				i-1, bars[i-1].Date.Format("2006-01-02"))
		}
	}

	return nil
}
