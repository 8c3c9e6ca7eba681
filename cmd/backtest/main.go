package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"covered-call-lab/internal/backtest"
	"covered-call-lab/internal/domain"
	"covered-call-lab/internal/marketdata"
	"covered-call-lab/internal/reporting"
	chstore "covered-call-lab/internal/storage/clickhouse"
	pgstore "covered-call-lab/internal/storage/postgres"
)

func main() {
	// Data source (pick one)
	csvPath := flag.String("csv", "", "Path to a date,open,high,low,close CSV file")
	synthetic := flag.Bool("synthetic", false, "Generate a deterministic synthetic series")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (load bars from the price store)")

	// Synthetic series parameters
	seed := flag.Int64("seed", 1, "Synthetic series seed")
	days := flag.Int("days", 252, "Synthetic series length in trading days")
	startPrice := flag.Float64("start-price", 2.00, "Synthetic series starting price")
	drift := flag.Float64("drift", 0.0, "Synthetic series annual drift")
	seriesVol := flag.Float64("series-vol", 0.60, "Synthetic series annual volatility")
	startDate := flag.String("start-date", "2024-01-02", "Synthetic series start date (YYYY-MM-DD)")

	// Strategy overrides
	ticker := flag.String("ticker", "", "Ticker symbol (defaults to the baseline config)")
	label := flag.String("label", "", "Run label for reports")
	minStrike := flag.Float64("min-strike", 0, "Minimum strike (0 keeps the default)")
	targetDTE := flag.Int("target-dte", 0, "Target days to expiration (0 keeps the default, disables the DTE grid)")
	shares := flag.Int("shares", 0, "Share count (0 keeps the default)")
	rollDTE := flag.Int("roll-dte", -1, "Roll when remaining DTE <= threshold (-1 keeps the default)")
	rollProfit := flag.Float64("roll-profit", -1, "Roll when captured profit fraction reached (-1 keeps the default)")

	// Output
	outputJSON := flag.Bool("json", false, "Output run summary as JSON")
	markdownOut := flag.String("markdown-out", "", "Write a markdown report to this path")

	// Persistence
	persist := flag.Bool("persist", false, "Persist the run to storage")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (required with --persist)")

	flag.Parse()

	logger := log.New(os.Stderr, "[backtest] ", log.LstdFlags)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	cfg := domain.DefaultConfig()
	cfg.Label = *label
	if *ticker != "" {
		cfg.Ticker = *ticker
	}
	if *minStrike > 0 {
		cfg.MinStrike = *minStrike
	}
	if *targetDTE > 0 {
		cfg.TargetDTE = *targetDTE
		cfg.CandidateDTEs = nil
	}
	if *shares > 0 {
		cfg.Shares = *shares
	}
	if *rollDTE >= 0 {
		cfg.RollDTEThreshold = *rollDTE
	}
	if *rollProfit >= 0 {
		cfg.RollProfitFraction = *rollProfit
	}

	bars, err := loadBars(ctx, loadOptions{
		csvPath:       *csvPath,
		synthetic:     *synthetic,
		clickhouseDSN: *clickhouseDSN,
		ticker:        cfg.Ticker,
		seed:          *seed,
		days:          *days,
		startPrice:    *startPrice,
		drift:         *drift,
		vol:           *seriesVol,
		startDate:     *startDate,
	})
	if err != nil {
		logger.Fatalf("load price series: %v", err)
	}
	logger.Printf("Loaded %d bars for %s", len(bars), cfg.Ticker)

	result, err := backtest.NewEngine(cfg).Run(ctx, bars)
	if err != nil {
		logger.Fatalf("backtest failed: %v", err)
	}

	if *persist {
		if *postgresDSN == "" || *clickhouseDSN == "" {
			logger.Fatal("--persist requires --postgres-dsn and --clickhouse-dsn")
		}
		if err := persistResult(ctx, *postgresDSN, *clickhouseDSN, result); err != nil {
			logger.Fatalf("persist run: %v", err)
		}
		logger.Printf("Persisted run %s", result.RunID)
	}

	if *markdownOut != "" {
		report := reporting.NewGenerator().Single(result)
		if err := os.WriteFile(*markdownOut, []byte(reporting.RenderMarkdown(report)), 0644); err != nil {
			logger.Fatalf("write markdown report: %v", err)
		}
		logger.Printf("Wrote markdown report to %s", *markdownOut)
	}

	if *outputJSON {
		output, _ := json.MarshalIndent(result.Record(), "", "  ")
		fmt.Println(string(output))
	} else {
		printResult(result)
	}
}

type loadOptions struct {
	csvPath       string
	synthetic     bool
	clickhouseDSN string
	ticker        string

	seed       int64
	days       int
	startPrice float64
	drift      float64
	vol        float64
	startDate  string
}

// loadBars resolves the price series from the configured source.
func loadBars(ctx context.Context, opts loadOptions) ([]domain.PriceBar, error) {
	switch {
	case opts.csvPath != "":
		return marketdata.LoadCSV(opts.csvPath)

	case opts.synthetic:
		start, err := time.Parse("2006-01-02", opts.startDate)
		if err != nil {
			return nil, fmt.Errorf("parse start date: %w", err)
		}
		return marketdata.GenerateSynthetic(marketdata.SyntheticParams{
			Seed:        opts.seed,
			Start:       start,
			Days:        opts.days,
			StartPrice:  opts.startPrice,
			AnnualDrift: opts.drift,
			AnnualVol:   opts.vol,
		}), nil

	case opts.clickhouseDSN != "":
		conn, err := chstore.NewConn(ctx, opts.clickhouseDSN)
		if err != nil {
			return nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		defer conn.Close()
		return chstore.NewPriceBarStore(conn).GetByTicker(ctx, opts.ticker)

	default:
		return nil, fmt.Errorf("no data source: use --csv, --synthetic, or --clickhouse-dsn")
	}
}

// persistResult stores the run row and trades in PostgreSQL and the
// equity curve in ClickHouse.
func persistResult(ctx context.Context, postgresDSN, clickhouseDSN string, result *domain.BacktestResult) error {
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	conn, err := chstore.NewConn(ctx, clickhouseDSN)
	if err != nil {
		return fmt.Errorf("connect to clickhouse: %w", err)
	}
	defer conn.Close()

	if err := pgstore.NewBacktestRunStore(pool).Insert(ctx, result.Record()); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if err := pgstore.NewTradeRecordStore(pool).InsertBulk(ctx, result.Trades); err != nil {
		return fmt.Errorf("insert trades: %w", err)
	}
	if err := chstore.NewEquityCurveStore(conn).InsertBulk(ctx, result.EquityCurve); err != nil {
		return fmt.Errorf("insert equity curve: %w", err)
	}
	return nil
}

// printResult outputs a human-readable run summary.
func printResult(r *domain.BacktestResult) {
	s := r.Summary

	fmt.Println()
	fmt.Println("=== Backtest Result ===")
	fmt.Printf("Run ID:             %s\n", r.RunID)
	fmt.Printf("Ticker:             %s\n", r.Config.Ticker)
	fmt.Printf("Period:             %s to %s (%d trading days)\n",
		r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"), s.TradingDays)
	fmt.Println()

	fmt.Println("Returns:")
	fmt.Printf("  Initial:          %.2f\n", r.InitialInvestment)
	fmt.Printf("  Final Equity:     %.2f\n", r.FinalEquity)
	fmt.Printf("  Total Return:     %.2f%%\n", s.TotalReturnPct)
	fmt.Printf("  Annualized:       %.2f%%\n", s.AnnualizedReturnPct)
	fmt.Printf("  Buy-and-Hold:     %.2f%%\n", s.StockOnlyReturnPct)
	fmt.Printf("  Excess:           %.2f%%\n", s.ExcessReturnPct)
	fmt.Println()

	fmt.Println("Premium:")
	fmt.Printf("  Collected:        %.2f\n", s.TotalPremiumCollected)
	fmt.Printf("  Commissions:      %.2f\n", s.TotalCommissions)
	fmt.Printf("  Yield:            %.2f%%\n", s.PremiumYieldPct)
	fmt.Println()

	fmt.Println("Risk:")
	fmt.Printf("  Max Drawdown:     %.2f%%\n", s.MaxDrawdownPct)
	fmt.Printf("  Sharpe Ratio:     %.2f\n", s.SharpeRatio)
	fmt.Printf("  Floor Breaches:   %d day(s)\n", r.BreachCount())
	fmt.Println()

	fmt.Println("Activity:")
	fmt.Printf("  Trades:           %d\n", s.NumTrades)
	fmt.Printf("  Called Away:      %d\n", s.TimesCalledAway)
	fmt.Printf("  Rolled:           %d\n", s.TimesRolled)
	fmt.Printf("  Expired:          %d\n", s.TimesExpired)
	fmt.Printf("  Avg Cycle:        %.1f day(s)\n", s.AvgDaysPerCycle)
}
