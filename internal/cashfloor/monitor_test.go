package cashfloor

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covered-call-lab/internal/domain"
)

func testConfig() domain.StrategyConfig {
	cfg := domain.DefaultConfig()
	cfg.NetCashPerShare = 1.50
	cfg.CashBurnPerQuarter = 0.10
	cfg.CashFloorWarningRatio = 0.8
	return cfg
}

func TestFloorAt_LinearBurn(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	m := NewMonitor(start, testConfig())

	assert.Equal(t, 1.50, m.FloorAt(start))
	// One quarter (90 days) burns exactly one quarterly burn unit.
	assert.InDelta(t, 1.40, m.FloorAt(start.AddDate(0, 0, 90)), 1e-12)
	assert.InDelta(t, 1.30, m.FloorAt(start.AddDate(0, 0, 180)), 1e-12)
}

func TestFloorAt_NeverNegative(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	m := NewMonitor(start, testConfig())

	// 1.50 / (0.10/quarter) = 15 quarters to exhaustion.
	assert.Zero(t, m.FloorAt(start.AddDate(0, 0, 90*20)))
}

func TestFloorAt_MonotonicNonIncreasing(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	m := NewMonitor(start, testConfig())

	prev := math.Inf(1)
	for d := 0; d < 2000; d += 30 {
		floor := m.FloorAt(start.AddDate(0, 0, d))
		require.LessOrEqual(t, floor, prev, "floor rose at day %d", d)
		prev = floor
	}
}

func TestSample_BreachBelowWarningRatio(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	m := NewMonitor(start, testConfig())

	// Floor is 1.50; price 1.00 gives ratio 0.67 < 0.8 -> breach.
	est := m.Sample(start, 1.00)
	assert.True(t, est.Breach)
	assert.InDelta(t, 1.00/1.50, est.PriceToFloor, 1e-12)

	// Price 2.00 gives ratio 1.33 -> intact.
	est = m.Sample(start, 2.00)
	assert.False(t, est.Breach)
}

func TestSample_BreachWhenCashExhausted(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	m := NewMonitor(start, testConfig())

	est := m.Sample(start.AddDate(0, 0, 90*20), 2.00)
	assert.True(t, est.Breach)
	assert.True(t, math.IsInf(est.PriceToFloor, 1))
	assert.Zero(t, est.NetCashPerShare)
}

func TestSample_ReproducibleWithoutReplay(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	m := NewMonitor(start, testConfig())
	day500 := start.AddDate(0, 0, 500)

	// Sampling out of order or repeatedly yields identical estimates.
	first := m.Sample(day500, 1.80)
	m.Sample(start.AddDate(0, 0, 10), 2.00)
	second := m.Sample(day500, 1.80)
	assert.Equal(t, first, second)
}
