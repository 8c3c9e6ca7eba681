package domain

import "time"

// EquityCurveSample is one per-day snapshot of strategy equity.
// The full curve is append-only with exactly one sample per trading day:
// no skipped bar, no duplicate date.
type EquityCurveSample struct {
	RunID string
	Date  time.Time

	SpotPrice       float64
	Cash            float64 // cash account including collected premium
	StockValue      float64 // shares held * spot
	OptionLiability float64 // mark-to-market value of the open short call
	PremiumRealized float64 // net premium cash flow credited this day
	Equity          float64 // cash + stock value - option liability
	Volatility      float64 // IV proxy used for pricing this day
}

// CashFloorEstimate is the per-day net-cash-per-share floor reading.
// Recomputed each day from elapsed time, never mutated.
type CashFloorEstimate struct {
	Date            time.Time
	SpotPrice       float64
	NetCashPerShare float64 // linear-burn floor, never below zero
	PriceToFloor    float64 // spot / floor; +Inf once the floor hits zero
	Breach          bool    // thesis warning, advisory only
}
