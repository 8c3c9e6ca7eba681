package backtest

import (
	"math"

	"covered-call-lab/internal/domain"
)

// tradingDaysPerYear annualizes daily statistics.
const tradingDaysPerYear = 252.0

// computeSummary aggregates one run's statistics from its equity curve
// and trade log. The curve must be in chronological order.
func computeSummary(
	bars []domain.PriceBar,
	curve []*domain.EquityCurveSample,
	trades []*domain.TradeRecord,
	premium, commissions, initial float64,
) domain.BacktestSummary {
	n := len(curve)
	final := curve[n-1].Equity

	s := domain.BacktestSummary{
		TotalPremiumCollected: premium,
		TotalCommissions:      commissions,
		TradingDays:           n,
		NumTrades:             len(trades),
	}

	if initial > 0 {
		s.TotalReturnPct = (final - initial) / initial * 100
		s.PremiumYieldPct = premium / initial * 100
		s.AnnualizedReturnPct = annualizedReturnPct(final/initial, n)
	}

	firstClose, lastClose := bars[0].Close, bars[len(bars)-1].Close
	s.StockOnlyReturnPct = (lastClose - firstClose) / firstClose * 100
	s.ExcessReturnPct = s.TotalReturnPct - s.StockOnlyReturnPct

	equities := make([]float64, n)
	for i, c := range curve {
		equities[i] = c.Equity
	}
	s.MaxDrawdownPct = computeMaxDrawdownPct(equities)
	s.SharpeRatio = computeSharpe(equities)

	for _, t := range trades {
		switch t.Outcome {
		case domain.OutcomeCalledAway:
			s.TimesCalledAway++
		case domain.OutcomeRolled:
			s.TimesRolled++
		case domain.OutcomeExpiredWorthless:
			s.TimesExpired++
		}
	}
	s.AvgDaysPerCycle = computeAvgCycleDays(trades)

	return s
}

// annualizedReturnPct compounds total growth to a yearly rate using
// trading days. Non-positive growth (equity wiped out) floors at -100%.
func annualizedReturnPct(growth float64, days int) float64 {
	if days < 1 || growth <= 0 {
		return -100
	}
	return (math.Pow(growth, tradingDaysPerYear/float64(days)) - 1) * 100
}

// computeMaxDrawdownPct returns the worst peak-to-trough equity decline
// as a percentage of the peak. Equities must be in chronological order.
func computeMaxDrawdownPct(equities []float64) float64 {
	peak := 0.0
	maxDrawdown := 0.0

	for _, e := range equities {
		if e > peak {
			peak = e
		}
		if peak <= 0 {
			continue
		}
		drawdown := (peak - e) / peak * 100
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}
	return maxDrawdown
}

// computeSharpe returns the annualized Sharpe ratio of daily equity
// returns (zero risk-free baseline). Zero when the curve never moves.
func computeSharpe(equities []float64) float64 {
	if len(equities) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(equities)-1)
	for i := 1; i < len(equities); i++ {
		if equities[i-1] <= 0 {
			continue
		}
		returns = append(returns, equities[i]/equities[i-1]-1)
	}
	if len(returns) == 0 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	sumSq := 0.0
	for _, r := range returns {
		d := r - mean
		sumSq += d * d
	}
	std := math.Sqrt(sumSq / float64(len(returns)))
	if std == 0 {
		return 0
	}

	return mean / std * math.Sqrt(tradingDaysPerYear)
}

// computeAvgCycleDays returns the mean calendar days from open to close
// across all closed trades.
func computeAvgCycleDays(trades []*domain.TradeRecord) float64 {
	if len(trades) == 0 {
		return 0
	}
	total := 0
	for _, t := range trades {
		total += domain.DaysBetween(t.OpenDate, t.CloseDate)
	}
	return float64(total) / float64(len(trades))
}
