// Package backtest replays the covered-call strategy over a daily price
// series and aggregates the outcome: equity curve, trade log, cash floor
// readings, and summary statistics.
package backtest

import (
	"context"
	"fmt"

	"covered-call-lab/internal/cashfloor"
	"covered-call-lab/internal/domain"
	"covered-call-lab/internal/idhash"
	"covered-call-lab/internal/marketdata"
	"covered-call-lab/internal/position"
	"covered-call-lab/internal/pricing"
)

// Engine executes one backtest run. Each run builds its own position
// engine and cash floor monitor, so engines never share mutable state
// and identical inputs always reproduce identical results.
type Engine struct {
	cfg domain.StrategyConfig
}

// NewEngine creates an Engine for the given configuration.
func NewEngine(cfg domain.StrategyConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Run replays the series chronologically: one cash floor sample, one
// position evaluation, and one equity curve sample per bar. The share
// position is bought at the first close; on assignment the shares are
// sold at strike and re-bought at the market the same day.
//
// The configuration and series are validated before the first bar.
func (e *Engine) Run(ctx context.Context, bars []domain.PriceBar) (*domain.BacktestResult, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := marketdata.ValidateSeries(bars); err != nil {
		return nil, err
	}

	runID := idhash.ComputeRunID(e.cfg, bars)
	vols := pricing.EstimateVolatilitySeries(bars,
		e.cfg.VolatilityWindow, e.cfg.IVPremiumMultiplier, e.cfg.MinVolatility, e.cfg.DefaultVolatility)

	shares := float64(e.cfg.Shares)
	initialInvestment := shares * bars[0].Close

	pos := position.NewEngine(e.cfg)
	floor := cashfloor.NewMonitor(bars[0].Date, e.cfg)

	var (
		cash            float64
		premiumRealized float64
		commissions     float64
		trades          []*domain.TradeRecord
		curve           = make([]*domain.EquityCurveSample, 0, len(bars))
		floorSamples    = make([]*domain.CashFloorEstimate, 0, len(bars))
	)

	for i, bar := range bars {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		day := domain.Day(bar.Date)
		vol := vols[i]

		floorSamples = append(floorSamples, floor.Sample(day, bar.Close))

		out, err := pos.EvaluateDay(day, bar.Close, vol)
		if err != nil {
			return nil, fmt.Errorf("bar %d (%s): %w", i, day.Format("2006-01-02"), err)
		}

		cash += out.CashFlow
		premiumRealized += out.PremiumReceived
		commissions += out.CommissionsPaid

		if out.CalledAway {
			// Assignment sells the shares at strike; the holding is
			// re-established at the market close the same day.
			cash += shares * (out.Closed.Contract.Strike - bar.Close)
		}

		if out.Closed != nil {
			out.Closed.RunID = runID
			out.Closed.TradeID = idhash.ComputeTradeID(
				runID, out.Closed.OpenDate, out.Closed.Contract.Strike, out.Closed.Contract.Expiration)
			trades = append(trades, out.Closed)
		}

		liability := 0.0
		if open := pos.Position(); open != nil {
			remaining := open.RemainingDTE(day)
			mid, err := pricing.CallPrice(bar.Close, open.Contract.Strike,
				float64(remaining)/365.0, vol, e.cfg.RiskFreeRate)
			if err != nil {
				return nil, fmt.Errorf("bar %d (%s): mark to market: %w", i, day.Format("2006-01-02"), err)
			}
			liability = mid * float64(open.Contracts*e.cfg.ContractMultiplier)
		}

		stockValue := shares * bar.Close
		curve = append(curve, &domain.EquityCurveSample{
			RunID:           runID,
			Date:            day,
			SpotPrice:       bar.Close,
			Cash:            cash,
			StockValue:      stockValue,
			OptionLiability: liability,
			PremiumRealized: out.PremiumReceived,
			Equity:          stockValue + cash - liability,
			Volatility:      vol,
		})
	}

	finalEquity := curve[len(curve)-1].Equity

	return &domain.BacktestResult{
		RunID:             runID,
		Config:            e.cfg,
		StartDate:         domain.Day(bars[0].Date),
		EndDate:           domain.Day(bars[len(bars)-1].Date),
		InitialInvestment: initialInvestment,
		FinalEquity:       finalEquity,
		Summary:           computeSummary(bars, curve, trades, premiumRealized, commissions, initialInvestment),
		EquityCurve:       curve,
		Trades:            trades,
		CashFloor:         floorSamples,
	}, nil
}
