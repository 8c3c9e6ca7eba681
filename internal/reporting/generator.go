package reporting

import (
	"time"

	"covered-call-lab/internal/domain"
)

// Generator builds reports from backtest results.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Single builds a report for one run, including the full trade log.
func (g *Generator) Single(result *domain.BacktestResult) *Report {
	r := g.Comparison([]*domain.BacktestResult{result})
	r.Trades = buildTradeRows(result.Trades)
	r.FloorBreachDays = result.BreachCount()
	return r
}

// Comparison builds a side-by-side report over runs of the same price
// series. Rows keep the input order, which is the caller's sweep order.
func (g *Generator) Comparison(results []*domain.BacktestResult) *Report {
	r := &Report{
		GeneratedAt: g.now(),
		Runs:        make([]RunRow, len(results)),
	}

	if len(results) > 0 {
		first := results[0]
		r.Ticker = first.Config.Ticker
		r.StartDate = first.StartDate
		r.EndDate = first.EndDate
		r.TradingDays = first.Summary.TradingDays
	}

	for i, result := range results {
		r.Runs[i] = buildRunRow(result)
	}

	return r
}

func buildRunRow(result *domain.BacktestResult) RunRow {
	s := result.Summary
	return RunRow{
		Label:               result.Config.Label,
		RunID:               result.RunID,
		MinStrike:           result.Config.MinStrike,
		TargetDTE:           result.Config.TargetDTE,
		InitialInvestment:   result.InitialInvestment,
		FinalEquity:         result.FinalEquity,
		TotalReturnPct:      s.TotalReturnPct,
		AnnualizedReturnPct: s.AnnualizedReturnPct,
		StockOnlyReturnPct:  s.StockOnlyReturnPct,
		ExcessReturnPct:     s.ExcessReturnPct,
		PremiumCollected:    s.TotalPremiumCollected,
		PremiumYieldPct:     s.PremiumYieldPct,
		Commissions:         s.TotalCommissions,
		MaxDrawdownPct:      s.MaxDrawdownPct,
		SharpeRatio:         s.SharpeRatio,
		NumTrades:           s.NumTrades,
		TimesCalledAway:     s.TimesCalledAway,
		TimesRolled:         s.TimesRolled,
		TimesExpired:        s.TimesExpired,
		AvgDaysPerCycle:     s.AvgDaysPerCycle,
	}
}

func buildTradeRows(trades []*domain.TradeRecord) []TradeRow {
	rows := make([]TradeRow, len(trades))
	for i, t := range trades {
		rows[i] = TradeRow{
			TradeID:         t.TradeID,
			OpenDate:        t.OpenDate,
			CloseDate:       t.CloseDate,
			Strike:          t.Contract.Strike,
			Expiration:      t.Contract.Expiration,
			Contracts:       t.Contracts,
			OpenSpot:        t.OpenSpot,
			CloseSpot:       t.CloseSpot,
			PremiumReceived: t.PremiumReceived,
			BuybackCost:     t.BuybackCost,
			NetPnL:          t.NetPnL,
			Outcome:         t.Outcome,
		}
	}
	return rows
}
