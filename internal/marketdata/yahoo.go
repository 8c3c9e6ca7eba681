package marketdata

import (
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"covered-call-lab/internal/domain"
)

// FetchDailyBars downloads daily OHLC history for a symbol from Yahoo
// Finance. The returned series is validated before returning.
func FetchDailyBars(symbol string, start, end time.Time) ([]domain.PriceBar, error) {
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)

	var bars []domain.PriceBar
	for iter.Next() {
		b := iter.Bar()

		open, _ := b.Open.Float64()
		high, _ := b.High.Float64()
		low, _ := b.Low.Float64()
		closePx, _ := b.Close.Float64()

		bars = append(bars, domain.PriceBar{
			Date:  domain.Day(time.Unix(int64(b.Timestamp), 0).UTC()),
			Open:  open,
			High:  high,
			Low:   low,
			Close: closePx,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("fetch %s from yahoo: %w", symbol, err)
	}

	if err := ValidateSeries(bars); err != nil {
		return nil, err
	}
	return bars, nil
}
