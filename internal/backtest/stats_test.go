package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covered-call-lab/internal/domain"
)

func TestAnnualizedReturnPct(t *testing.T) {
	// One full trading year of 10% growth annualizes to 10%.
	assert.InDelta(t, 10.0, annualizedReturnPct(1.10, 252), 1e-9)
	// Half a year of 10% growth compounds to ~21% annualized.
	assert.InDelta(t, (math.Pow(1.10, 2)-1)*100, annualizedReturnPct(1.10, 126), 1e-9)
	// Wiped-out equity floors at -100%.
	assert.Equal(t, -100.0, annualizedReturnPct(0, 252))
}

func TestComputeMaxDrawdownPct(t *testing.T) {
	tests := []struct {
		name     string
		equities []float64
		want     float64
	}{
		{"monotonic rise", []float64{100, 110, 120}, 0},
		{"single dip", []float64{100, 80, 120}, 20},
		{"deepest trough wins", []float64{100, 90, 130, 65, 120}, 50},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, computeMaxDrawdownPct(tt.equities), 1e-9)
		})
	}
}

func TestComputeSharpe(t *testing.T) {
	// Constant curve has no variance and no ratio.
	assert.Zero(t, computeSharpe([]float64{100, 100, 100}))
	// Constant growth rate also has zero variance.
	assert.Zero(t, computeSharpe([]float64{100, 200, 400}))

	// Alternating gains and losses produce a finite, signed ratio.
	up := computeSharpe([]float64{100, 102, 101, 103, 102, 104})
	assert.Greater(t, up, 0.0)
	down := computeSharpe([]float64{104, 102, 103, 101, 102, 100})
	assert.Less(t, down, 0.0)
}

func TestComputeAvgCycleDays(t *testing.T) {
	day0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	trades := []*domain.TradeRecord{
		{OpenDate: day0, CloseDate: day0.AddDate(0, 0, 30)},
		{OpenDate: day0, CloseDate: day0.AddDate(0, 0, 20)},
	}
	assert.InDelta(t, 25.0, computeAvgCycleDays(trades), 1e-9)
	assert.Zero(t, computeAvgCycleDays(nil))
}

func TestComputeSummary_OutcomeCounts(t *testing.T) {
	bars := flatBars(2)
	curve := []*domain.EquityCurveSample{
		{Equity: 2000}, {Equity: 2010},
	}
	trades := []*domain.TradeRecord{
		{Outcome: domain.OutcomeExpiredWorthless},
		{Outcome: domain.OutcomeCalledAway},
		{Outcome: domain.OutcomeRolled},
		{Outcome: domain.OutcomeRolled},
	}

	s := computeSummary(bars, curve, trades, 12.5, 1.30, 2000)

	require.Equal(t, 4, s.NumTrades)
	assert.Equal(t, 1, s.TimesExpired)
	assert.Equal(t, 1, s.TimesCalledAway)
	assert.Equal(t, 2, s.TimesRolled)
	assert.Equal(t, 2, s.TradingDays)
	assert.InDelta(t, 0.5, s.TotalReturnPct, 1e-9)
	assert.InDelta(t, 12.5/2000*100, s.PremiumYieldPct, 1e-9)
	assert.Equal(t, 1.30, s.TotalCommissions)
}
