package domain

import "time"

// BacktestSummary holds the aggregate statistics of one run.
type BacktestSummary struct {
	// Returns
	TotalReturnPct      float64
	AnnualizedReturnPct float64
	StockOnlyReturnPct  float64 // buy-and-hold on the same capital
	ExcessReturnPct     float64 // strategy minus buy-and-hold

	// Premium income
	TotalPremiumCollected float64
	TotalCommissions      float64
	PremiumYieldPct       float64 // premium / initial investment

	// Risk
	MaxDrawdownPct float64 // largest peak-to-trough equity decline
	SharpeRatio    float64 // daily mean/stddev annualized by sqrt(252)

	// Activity
	TradingDays     int
	NumTrades       int
	TimesCalledAway int
	TimesRolled     int
	TimesExpired    int
	AvgDaysPerCycle float64
}

// BacktestResult is the full output of one run: equity curve, trade log,
// cash floor readings, and summary statistics. Plain data, consumable by
// reporting and storage collaborators.
type BacktestResult struct {
	RunID  string
	Config StrategyConfig

	StartDate time.Time
	EndDate   time.Time

	InitialInvestment float64
	FinalEquity       float64

	Summary     BacktestSummary
	EquityCurve []*EquityCurveSample
	Trades      []*TradeRecord
	CashFloor   []*CashFloorEstimate // one per trading day
}

// RunRecord is the flat, persistable run-level row of a BacktestResult.
// Curve samples and trades are stored separately, keyed by RunID.
type RunRecord struct {
	RunID  string
	Label  string
	Ticker string

	StartDate time.Time
	EndDate   time.Time

	InitialInvestment float64
	FinalEquity       float64

	Summary BacktestSummary
}

// Record extracts the persistable run-level row.
func (r *BacktestResult) Record() *RunRecord {
	return &RunRecord{
		RunID:             r.RunID,
		Label:             r.Config.Label,
		Ticker:            r.Config.Ticker,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		InitialInvestment: r.InitialInvestment,
		FinalEquity:       r.FinalEquity,
		Summary:           r.Summary,
	}
}

// BreachCount returns the number of days the cash floor thesis was flagged.
func (r *BacktestResult) BreachCount() int {
	n := 0
	for _, e := range r.CashFloor {
		if e.Breach {
			n++
		}
	}
	return n
}
