// Package cashfloor tracks the thesis that the underlying trades near
// its liquidation (net cash) value, eroding linearly with cash burn.
package cashfloor

import (
	"math"
	"time"

	"covered-call-lab/internal/domain"
)

// daysPerQuarter converts the configured quarterly burn to a daily rate.
const daysPerQuarter = 90.0

// Monitor estimates the net-cash-per-share floor over time. It is a pure
// function of elapsed days since the start date: any date can be sampled
// in any order without replaying history.
type Monitor struct {
	startDate      time.Time
	initialNetCash float64
	burnPerQuarter float64
	warningRatio   float64
}

// NewMonitor creates a Monitor anchored at startDate.
func NewMonitor(startDate time.Time, cfg domain.StrategyConfig) *Monitor {
	return &Monitor{
		startDate:      domain.Day(startDate),
		initialNetCash: cfg.NetCashPerShare,
		burnPerQuarter: cfg.CashBurnPerQuarter,
		warningRatio:   cfg.CashFloorWarningRatio,
	}
}

// FloorAt returns the estimated net cash per share on the given date.
// The floor decreases linearly with burn and never goes below zero.
func (m *Monitor) FloorAt(date time.Time) float64 {
	quarters := float64(domain.DaysBetween(m.startDate, date)) / daysPerQuarter
	return math.Max(m.initialNetCash-m.burnPerQuarter*quarters, 0)
}

// Sample returns the floor estimate for one day: the floor itself, the
// live price/floor ratio, and a breach flag. The flag is advisory only;
// it never forces a position transition.
//
// Breach fires when the price/floor ratio drops below the warning ratio
// (the floor failed to hold) or when the estimated cash is fully burned.
func (m *Monitor) Sample(date time.Time, spot float64) *domain.CashFloorEstimate {
	floor := m.FloorAt(date)

	ratio := math.Inf(1)
	if floor > 0 {
		ratio = spot / floor
	}

	breach := floor <= 0 || ratio < m.warningRatio

	return &domain.CashFloorEstimate{
		Date:            domain.Day(date),
		SpotPrice:       spot,
		NetCashPerShare: floor,
		PriceToFloor:    ratio,
		Breach:          breach,
	}
}
