// Package main serves the backtest HTTP API: optimizer recommendations,
// run execution and persistence, stored-run queries, Prometheus metrics,
// and a WebSocket stream of equity samples.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"covered-call-lab/internal/domain"
	"covered-call-lab/internal/server"
	"covered-call-lab/internal/storage"
	chstore "covered-call-lab/internal/storage/clickhouse"
	"covered-call-lab/internal/storage/memory"
	"covered-call-lab/internal/storage/migrations"
	pgstore "covered-call-lab/internal/storage/postgres"
)

// apiStores holds the storage implementations behind the API.
type apiStores struct {
	runStore   storage.BacktestRunStore
	tradeStore storage.TradeRecordStore
	curveStore storage.EquityCurveStore
	barStore   storage.PriceBarStore
}

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	migrate := flag.Bool("migrate", false, "Apply database migrations on startup")
	ticker := flag.String("ticker", "", "Baseline ticker symbol (defaults to the baseline config)")

	flag.Parse()

	logger := log.New(os.Stderr, "[server] ", log.LstdFlags)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory, *migrate)
	if err != nil {
		logger.Fatalf("create stores: %v", err)
	}
	defer cleanup()

	cfg := domain.DefaultConfig()
	if *ticker != "" {
		cfg.Ticker = *ticker
	}

	srv := server.New(server.Options{
		RunStore:   stores.runStore,
		TradeStore: stores.tradeStore,
		CurveStore: stores.curveStore,
		BarStore:   stores.barStore,
		BaseConfig: cfg,
		Logger:     logger,
	})
	go srv.Hub().Run()

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: srv.Routes(),
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("HTTP shutdown error: %v", err)
		}
	}()

	logger.Printf("Serving on %s", *addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("HTTP server error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// createStores builds the storage layer, optionally running migrations.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory, migrate bool) (*apiStores, func(), error) {
	if useMemory {
		stores := &apiStores{
			runStore:   memory.NewBacktestRunStore(),
			tradeStore: memory.NewTradeRecordStore(),
			curveStore: memory.NewEquityCurveStore(),
			barStore:   memory.NewPriceBarStore(),
		}
		return stores, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres migrations: %w", err)
		}
	}

	var conn *chstore.Conn
	if migrate {
		conn, err = migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	} else {
		conn, err = chstore.NewConn(ctx, clickhouseDSN)
	}
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}

	stores := &apiStores{
		// PostgreSQL stores (run summaries + trade log)
		runStore:   pgstore.NewBacktestRunStore(pool),
		tradeStore: pgstore.NewTradeRecordStore(pool),

		// ClickHouse stores (timeseries)
		curveStore: chstore.NewEquityCurveStore(conn),
		barStore:   chstore.NewPriceBarStore(conn),
	}

	cleanup := func() {
		conn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}
