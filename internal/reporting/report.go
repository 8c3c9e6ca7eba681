package reporting

import "time"

// Report is the rendered view of one or more backtest runs over the same
// price series.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	Ticker      string
	StartDate   time.Time
	EndDate     time.Time
	TradingDays int

	// Run Summary (one row per configuration, input order preserved)
	Runs []RunRow

	// Trade Log (populated for single-run reports only)
	Trades []TradeRow

	// Cash floor thesis
	FloorBreachDays int
}

// RunRow is one row in the run comparison table.
type RunRow struct {
	Label     string
	RunID     string
	MinStrike float64
	TargetDTE int

	InitialInvestment float64
	FinalEquity       float64

	TotalReturnPct      float64
	AnnualizedReturnPct float64
	StockOnlyReturnPct  float64
	ExcessReturnPct     float64

	PremiumCollected float64
	PremiumYieldPct  float64
	Commissions      float64

	MaxDrawdownPct float64
	SharpeRatio    float64

	NumTrades       int
	TimesCalledAway int
	TimesRolled     int
	TimesExpired    int
	AvgDaysPerCycle float64
}

// TradeRow is one row in the trade log table.
type TradeRow struct {
	TradeID   string
	OpenDate  time.Time
	CloseDate time.Time

	Strike     float64
	Expiration time.Time
	Contracts  int

	OpenSpot  float64
	CloseSpot float64

	PremiumReceived float64
	BuybackCost     float64
	NetPnL          float64

	Outcome string
}
