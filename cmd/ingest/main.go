package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"covered-call-lab/internal/domain"
	"covered-call-lab/internal/marketdata"
	"covered-call-lab/internal/observability"
	chstore "covered-call-lab/internal/storage/clickhouse"
	"covered-call-lab/internal/storage/migrations"
)

func main() {
	ticker := flag.String("ticker", "", "Ticker symbol to fetch (required)")
	startDate := flag.String("start", "", "Start date YYYY-MM-DD (required)")
	endDate := flag.String("end", "", "End date YYYY-MM-DD (defaults to today)")
	csvOut := flag.String("csv-out", "", "Write fetched bars to this CSV path")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (store fetched bars)")
	migrate := flag.Bool("migrate", false, "Apply ClickHouse migrations before storing")

	flag.Parse()

	logger := log.New(os.Stderr, "[ingest] ", log.LstdFlags)

	if *ticker == "" {
		logger.Fatal("--ticker is required")
	}
	if *startDate == "" {
		logger.Fatal("--start is required")
	}
	if *csvOut == "" && *clickhouseDSN == "" {
		logger.Fatal("nothing to do: use --csv-out and/or --clickhouse-dsn")
	}

	start, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		logger.Fatalf("parse --start: %v", err)
	}
	end := time.Now().UTC()
	if *endDate != "" {
		end, err = time.Parse("2006-01-02", *endDate)
		if err != nil {
			logger.Fatalf("parse --end: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	logger.Printf("Fetching %s daily bars from %s to %s",
		*ticker, start.Format("2006-01-02"), end.Format("2006-01-02"))

	bars, err := marketdata.FetchDailyBars(*ticker, start, end)
	if err != nil {
		observability.RecordIngestionError("yahoo", "fetch")
		logger.Fatalf("fetch bars: %v", err)
	}
	observability.RecordBarsFetched("yahoo", len(bars))
	logger.Printf("Fetched %d bars", len(bars))

	if *csvOut != "" {
		if err := writeCSV(*csvOut, bars); err != nil {
			logger.Fatalf("write CSV: %v", err)
		}
		logger.Printf("Wrote %d bars to %s", len(bars), *csvOut)
	}

	if *clickhouseDSN != "" {
		if err := storeBars(ctx, *clickhouseDSN, *migrate, *ticker, bars); err != nil {
			observability.RecordIngestionError("yahoo", "store")
			logger.Fatalf("store bars: %v", err)
		}
		observability.DefaultMetrics.BarsStored.Add(float64(len(bars)))
		observability.DefaultMetrics.LastSuccessfulIngest.Set(float64(time.Now().Unix()))
		logger.Printf("Stored %d bars for %s", len(bars), *ticker)
	}
}

func writeCSV(path string, bars []domain.PriceBar) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := marketdata.WriteCSV(f, bars); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// storeBars inserts the fetched series into the ClickHouse price store,
// optionally applying migrations first.
func storeBars(ctx context.Context, dsn string, migrate bool, ticker string, bars []domain.PriceBar) error {
	var (
		conn *chstore.Conn
		err  error
	)
	if migrate {
		conn, err = migrations.RunClickhouseMigrations(ctx, dsn)
	} else {
		conn, err = chstore.NewConn(ctx, dsn)
	}
	if err != nil {
		return fmt.Errorf("connect to clickhouse: %w", err)
	}
	defer conn.Close()

	return chstore.NewPriceBarStore(conn).InsertBulk(ctx, ticker, bars)
}
