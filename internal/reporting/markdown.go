package reporting

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// RenderMarkdown renders a report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Covered Call Backtest: %s\n\n", r.Ticker))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Period: %s to %s (%d trading days)\n\n",
		r.StartDate.Format(dateLayout), r.EndDate.Format(dateLayout), r.TradingDays))

	// Run Summary
	sb.WriteString("## Run Summary\n\n")
	if len(r.Runs) > 0 {
		sb.WriteString("| Label | MinStrike | DTE | Final | Return% | Annual% | Stock% | Excess% | Premium | Yield% | MaxDD% | Sharpe | Trades | Called | Rolled | Expired |\n")
		sb.WriteString("|-------|-----------|-----|-------|---------|---------|--------|---------|---------|--------|--------|--------|--------|--------|--------|--------|\n")
		for _, row := range r.Runs {
			sb.WriteString(fmt.Sprintf("| %s | %.2f | %d | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %d | %d | %d | %d |\n",
				row.Label, row.MinStrike, row.TargetDTE,
				row.FinalEquity, row.TotalReturnPct, row.AnnualizedReturnPct,
				row.StockOnlyReturnPct, row.ExcessReturnPct,
				row.PremiumCollected, row.PremiumYieldPct,
				row.MaxDrawdownPct, row.SharpeRatio,
				row.NumTrades, row.TimesCalledAway, row.TimesRolled, row.TimesExpired))
		}
	} else {
		sb.WriteString("No runs available.\n")
	}
	sb.WriteString("\n")

	// Trade Log
	if len(r.Trades) > 0 {
		sb.WriteString("## Trade Log\n\n")
		sb.WriteString("| Open | Close | Strike | Expiry | Contracts | OpenSpot | CloseSpot | Premium | Buyback | NetPnL | Outcome |\n")
		sb.WriteString("|------|-------|--------|--------|-----------|----------|-----------|---------|---------|--------|--------|\n")
		for _, t := range r.Trades {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.2f | %s | %d | %.2f | %.2f | %.2f | %.2f | %.2f | %s |\n",
				t.OpenDate.Format(dateLayout), t.CloseDate.Format(dateLayout),
				t.Strike, t.Expiration.Format(dateLayout), t.Contracts,
				t.OpenSpot, t.CloseSpot,
				t.PremiumReceived, t.BuybackCost, t.NetPnL, t.Outcome))
		}
		sb.WriteString("\n")
	}

	// Cash Floor
	sb.WriteString("## Cash Floor\n\n")
	if r.FloorBreachDays > 0 {
		sb.WriteString(fmt.Sprintf("Price closed below the warning ratio of the net-cash floor on %d day(s). Advisory only.\n\n", r.FloorBreachDays))
	} else {
		sb.WriteString("No floor breaches during the period.\n\n")
	}

	return sb.String()
}
