package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"covered-call-lab/internal/domain"
	"covered-call-lab/internal/storage"
)

// BacktestRunStore implements storage.BacktestRunStore using PostgreSQL.
type BacktestRunStore struct {
	pool *Pool
}

// NewBacktestRunStore creates a new BacktestRunStore.
func NewBacktestRunStore(pool *Pool) *BacktestRunStore {
	return &BacktestRunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BacktestRunStore = (*BacktestRunStore)(nil)

const runColumns = `
	run_id, label, ticker, start_date, end_date,
	initial_investment, final_equity,
	total_return_pct, annualized_return_pct, stock_only_return_pct, excess_return_pct,
	total_premium_collected, total_commissions, premium_yield_pct,
	max_drawdown_pct, sharpe_ratio,
	trading_days, num_trades, times_called_away, times_rolled, times_expired,
	avg_days_per_cycle
`

// Insert adds a new run record. Returns ErrDuplicateKey if run_id exists.
func (s *BacktestRunStore) Insert(ctx context.Context, r *domain.RunRecord) error {
	query := `
		INSERT INTO backtest_runs (` + runColumns + `) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7,
			$8, $9, $10, $11,
			$12, $13, $14,
			$15, $16,
			$17, $18, $19, $20, $21,
			$22
		)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID, r.Label, r.Ticker, r.StartDate, r.EndDate,
		r.InitialInvestment, r.FinalEquity,
		r.Summary.TotalReturnPct, r.Summary.AnnualizedReturnPct, r.Summary.StockOnlyReturnPct, r.Summary.ExcessReturnPct,
		r.Summary.TotalPremiumCollected, r.Summary.TotalCommissions, r.Summary.PremiumYieldPct,
		r.Summary.MaxDrawdownPct, r.Summary.SharpeRatio,
		r.Summary.TradingDays, r.Summary.NumTrades, r.Summary.TimesCalledAway, r.Summary.TimesRolled, r.Summary.TimesExpired,
		r.Summary.AvgDaysPerCycle,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert backtest run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *BacktestRunStore) GetByID(ctx context.Context, runID string) (*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM backtest_runs WHERE run_id = $1`

	row := s.pool.QueryRow(ctx, query, runID)
	r, err := scanRunRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get backtest run by id: %w", err)
	}
	return r, nil
}

// GetByTicker retrieves all runs for a ticker, ordered by start_date ASC.
func (s *BacktestRunStore) GetByTicker(ctx context.Context, ticker string) ([]*domain.RunRecord, error) {
	query := `
		SELECT ` + runColumns + ` FROM backtest_runs
		WHERE ticker = $1
		ORDER BY start_date ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("get backtest runs by ticker: %w", err)
	}
	defer rows.Close()

	return scanRunRecords(rows)
}

// GetAll retrieves all runs, ordered by start_date ASC, run_id ASC.
func (s *BacktestRunStore) GetAll(ctx context.Context) ([]*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM backtest_runs ORDER BY start_date ASC, run_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all backtest runs: %w", err)
	}
	defer rows.Close()

	return scanRunRecords(rows)
}

// scanRunRecord scans a single row into a RunRecord.
func scanRunRecord(row pgx.Row) (*domain.RunRecord, error) {
	var r domain.RunRecord

	err := row.Scan(
		&r.RunID, &r.Label, &r.Ticker, &r.StartDate, &r.EndDate,
		&r.InitialInvestment, &r.FinalEquity,
		&r.Summary.TotalReturnPct, &r.Summary.AnnualizedReturnPct, &r.Summary.StockOnlyReturnPct, &r.Summary.ExcessReturnPct,
		&r.Summary.TotalPremiumCollected, &r.Summary.TotalCommissions, &r.Summary.PremiumYieldPct,
		&r.Summary.MaxDrawdownPct, &r.Summary.SharpeRatio,
		&r.Summary.TradingDays, &r.Summary.NumTrades, &r.Summary.TimesCalledAway, &r.Summary.TimesRolled, &r.Summary.TimesExpired,
		&r.Summary.AvgDaysPerCycle,
	)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// scanRunRecords scans multiple rows into a slice of RunRecord.
func scanRunRecords(rows pgx.Rows) ([]*domain.RunRecord, error) {
	var runs []*domain.RunRecord

	for rows.Next() {
		r, err := scanRunRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan backtest run row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate backtest run rows: %w", err)
	}

	return runs, nil
}
