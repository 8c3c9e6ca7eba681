package storage

import (
	"context"
	"time"

	"covered-call-lab/internal/domain"
)

// BacktestRunStore provides access to backtest_runs storage.
type BacktestRunStore interface {
	// Insert adds a new run record. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.RunRecord) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.RunRecord, error)

	// GetByTicker retrieves all runs for a ticker, ordered by start_date ASC.
	GetByTicker(ctx context.Context, ticker string) ([]*domain.RunRecord, error)

	// GetAll retrieves all runs, ordered by start_date ASC, run_id ASC.
	GetAll(ctx context.Context) ([]*domain.RunRecord, error)
}

// TradeRecordStore provides access to trade_records storage.
type TradeRecordStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.TradeRecord) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.TradeRecord, error)

	// GetByRunID retrieves all trades for a run, ordered by open_date ASC, trade_id ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.TradeRecord, error)
}

// EquityCurveStore provides access to equity_curve storage.
type EquityCurveStore interface {
	// InsertBulk adds multiple samples. Fails entire batch on duplicate (run_id, date).
	InsertBulk(ctx context.Context, samples []*domain.EquityCurveSample) error

	// GetByRunID retrieves the full curve for a run, ordered by date ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.EquityCurveSample, error)

	// GetByDateRange retrieves samples for a run within [start, end] (inclusive).
	GetByDateRange(ctx context.Context, runID string, start, end time.Time) ([]*domain.EquityCurveSample, error)
}

// PriceBarStore provides access to price_bars storage.
type PriceBarStore interface {
	// InsertBulk adds multiple bars for a ticker. Fails entire batch on duplicate (ticker, date).
	InsertBulk(ctx context.Context, ticker string, bars []domain.PriceBar) error

	// GetByTicker retrieves all bars for a ticker, ordered by date ASC.
	GetByTicker(ctx context.Context, ticker string) ([]domain.PriceBar, error)

	// GetByDateRange retrieves bars for a ticker within [start, end] (inclusive).
	GetByDateRange(ctx context.Context, ticker string, start, end time.Time) ([]domain.PriceBar, error)
}
