package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders run comparison rows as a CSV string.
func RenderCSV(rows []RunRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("label,run_id,min_strike,target_dte,initial_investment,final_equity,")
	sb.WriteString("total_return_pct,annualized_return_pct,stock_only_return_pct,excess_return_pct,")
	sb.WriteString("premium_collected,premium_yield_pct,commissions,max_drawdown_pct,sharpe_ratio,")
	sb.WriteString("num_trades,times_called_away,times_rolled,times_expired,avg_days_per_cycle\n")

	// Rows
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%.2f,%d,%.2f,%.2f,%.4f,%.4f,%.4f,%.4f,%.2f,%.4f,%.2f,%.4f,%.4f,%d,%d,%d,%d,%.2f\n",
			r.Label,
			r.RunID,
			r.MinStrike,
			r.TargetDTE,
			r.InitialInvestment,
			r.FinalEquity,
			r.TotalReturnPct,
			r.AnnualizedReturnPct,
			r.StockOnlyReturnPct,
			r.ExcessReturnPct,
			r.PremiumCollected,
			r.PremiumYieldPct,
			r.Commissions,
			r.MaxDrawdownPct,
			r.SharpeRatio,
			r.NumTrades,
			r.TimesCalledAway,
			r.TimesRolled,
			r.TimesExpired,
			r.AvgDaysPerCycle,
		))
	}

	return sb.String()
}
