package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"covered-call-lab/internal/backtest"
	"covered-call-lab/internal/domain"
	"covered-call-lab/internal/marketdata"
	"covered-call-lab/internal/reporting"
)

func main() {
	// Data source (pick one)
	csvPath := flag.String("csv", "", "Path to a date,open,high,low,close CSV file")
	synthetic := flag.Bool("synthetic", false, "Generate a deterministic synthetic series")

	// Synthetic series parameters
	seed := flag.Int64("seed", 1, "Synthetic series seed")
	days := flag.Int("days", 252, "Synthetic series length in trading days")
	startPrice := flag.Float64("start-price", 2.00, "Synthetic series starting price")
	drift := flag.Float64("drift", 0.0, "Synthetic series annual drift")
	seriesVol := flag.Float64("series-vol", 0.60, "Synthetic series annual volatility")
	startDate := flag.String("start-date", "2024-01-02", "Synthetic series start date (YYYY-MM-DD)")

	// Sweep grids
	ticker := flag.String("ticker", "", "Ticker symbol (defaults to the baseline config)")
	minStrikes := flag.String("min-strikes", "2.50,3.00", "Comma-separated minimum strikes to sweep")
	dtes := flag.String("dtes", "21,30,45", "Comma-separated target DTEs to sweep")

	// Output
	markdownOut := flag.String("markdown-out", "", "Write a markdown report to this path")
	csvOut := flag.String("csv-out", "", "Write a CSV comparison table to this path")

	flag.Parse()

	logger := log.New(os.Stderr, "[compare] ", log.LstdFlags)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	strikes, err := parseFloats(*minStrikes)
	if err != nil {
		logger.Fatalf("parse --min-strikes: %v", err)
	}
	dteList, err := parseInts(*dtes)
	if err != nil {
		logger.Fatalf("parse --dtes: %v", err)
	}
	if len(strikes) == 0 || len(dteList) == 0 {
		logger.Fatal("--min-strikes and --dtes must each name at least one value")
	}

	bars, err := loadBars(*csvPath, *synthetic, *seed, *days, *startPrice, *drift, *seriesVol, *startDate)
	if err != nil {
		logger.Fatalf("load price series: %v", err)
	}

	configs := buildConfigs(*ticker, strikes, dteList)
	logger.Printf("Comparing %d configurations over %d bars", len(configs), len(bars))

	results, err := backtest.Compare(ctx, configs, bars)
	if err != nil {
		logger.Fatalf("compare failed: %v", err)
	}

	report := reporting.NewGenerator().Comparison(results)

	if *markdownOut != "" {
		if err := os.WriteFile(*markdownOut, []byte(reporting.RenderMarkdown(report)), 0644); err != nil {
			logger.Fatalf("write markdown report: %v", err)
		}
		logger.Printf("Wrote markdown report to %s", *markdownOut)
	}
	if *csvOut != "" {
		if err := os.WriteFile(*csvOut, []byte(reporting.RenderCSV(report.Runs)), 0644); err != nil {
			logger.Fatalf("write CSV report: %v", err)
		}
		logger.Printf("Wrote CSV report to %s", *csvOut)
	}

	printTable(report.Runs)
}

// buildConfigs expands the min-strike x DTE sweep into labeled configs.
// Each sweep point evaluates only its own DTE so results isolate the knob.
func buildConfigs(ticker string, strikes []float64, dtes []int) []domain.StrategyConfig {
	var configs []domain.StrategyConfig
	for _, strike := range strikes {
		for _, dte := range dtes {
			cfg := domain.DefaultConfig()
			if ticker != "" {
				cfg.Ticker = ticker
			}
			cfg.MinStrike = strike
			cfg.TargetDTE = dte
			cfg.CandidateDTEs = nil
			cfg.Label = fmt.Sprintf("strike%.2f-dte%d", strike, dte)
			configs = append(configs, cfg)
		}
	}
	return configs
}

func loadBars(csvPath string, synthetic bool, seed int64, days int, startPrice, drift, vol float64, startDate string) ([]domain.PriceBar, error) {
	switch {
	case csvPath != "":
		return marketdata.LoadCSV(csvPath)
	case synthetic:
		start, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return nil, fmt.Errorf("parse start date: %w", err)
		}
		return marketdata.GenerateSynthetic(marketdata.SyntheticParams{
			Seed:        seed,
			Start:       start,
			Days:        days,
			StartPrice:  startPrice,
			AnnualDrift: drift,
			AnnualVol:   vol,
		}), nil
	default:
		return nil, fmt.Errorf("no data source: use --csv or --synthetic")
	}
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// printTable outputs a side-by-side comparison to stdout.
func printTable(rows []reporting.RunRow) {
	fmt.Println()
	fmt.Printf("%-20s %10s %9s %9s %9s %9s %8s %7s %7s %7s %8s\n",
		"Label", "Final", "Return%", "Annual%", "Excess%", "Premium", "MaxDD%", "Sharpe", "Trades", "Called", "AvgCycle")
	for _, r := range rows {
		fmt.Printf("%-20s %10.2f %9.2f %9.2f %9.2f %9.2f %8.2f %7.2f %7d %7d %8.1f\n",
			r.Label, r.FinalEquity, r.TotalReturnPct, r.AnnualizedReturnPct, r.ExcessReturnPct,
			r.PremiumCollected, r.MaxDrawdownPct, r.SharpeRatio,
			r.NumTrades, r.TimesCalledAway, r.AvgDaysPerCycle)
	}
}
