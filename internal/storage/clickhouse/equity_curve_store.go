// Package clickhouse provides ClickHouse-backed stores for the
// high-volume timeseries data: equity curves and daily price bars.
package clickhouse

import (
	"context"
	"fmt"
	"time"

	"covered-call-lab/internal/domain"
	"covered-call-lab/internal/storage"
)

// EquityCurveStore implements storage.EquityCurveStore using ClickHouse.
type EquityCurveStore struct {
	conn *Conn
}

// NewEquityCurveStore creates a new EquityCurveStore.
func NewEquityCurveStore(conn *Conn) *EquityCurveStore {
	return &EquityCurveStore{conn: conn}
}

// Compile-time interface check.
var _ storage.EquityCurveStore = (*EquityCurveStore)(nil)

// InsertBulk adds multiple samples. Fails entire batch on duplicate (run_id, date).
func (s *EquityCurveStore) InsertBulk(ctx context.Context, samples []*domain.EquityCurveSample) error {
	if len(samples) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		runID string
		date  time.Time
	}
	seen := make(map[key]struct{})
	for _, sample := range samples {
		if sample == nil || sample.RunID == "" {
			return storage.ErrInvalidInput
		}
		k := key{sample.RunID, domain.Day(sample.Date)}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// MergeTree does not enforce uniqueness, so check existing rows first
	for _, sample := range samples {
		exists, err := s.exists(ctx, sample.RunID, domain.Day(sample.Date))
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO equity_curve (
			run_id, date, spot_price, cash, stock_value,
			option_liability, premium_realized, equity, volatility
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, sample := range samples {
		err = batch.Append(
			sample.RunID, domain.Day(sample.Date), sample.SpotPrice, sample.Cash, sample.StockValue,
			sample.OptionLiability, sample.PremiumRealized, sample.Equity, sample.Volatility,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunID retrieves the full curve for a run, ordered by date ASC.
func (s *EquityCurveStore) GetByRunID(ctx context.Context, runID string) ([]*domain.EquityCurveSample, error) {
	query := `
		SELECT run_id, date, spot_price, cash, stock_value,
		       option_liability, premium_realized, equity, volatility
		FROM equity_curve
		WHERE run_id = ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run id: %w", err)
	}
	defer rows.Close()

	return scanEquityCurve(rows)
}

// GetByDateRange retrieves samples for a run within [start, end] (inclusive).
func (s *EquityCurveStore) GetByDateRange(ctx context.Context, runID string, start, end time.Time) ([]*domain.EquityCurveSample, error) {
	query := `
		SELECT run_id, date, spot_price, cash, stock_value,
		       option_liability, premium_realized, equity, volatility
		FROM equity_curve
		WHERE run_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, runID, domain.Day(start), domain.Day(end))
	if err != nil {
		return nil, fmt.Errorf("query by date range: %w", err)
	}
	defer rows.Close()

	return scanEquityCurve(rows)
}

// exists checks if a sample with the given key exists.
func (s *EquityCurveStore) exists(ctx context.Context, runID string, date time.Time) (bool, error) {
	query := `SELECT count(*) FROM equity_curve WHERE run_id = ? AND date = ?`

	var count uint64
	err := s.conn.QueryRow(ctx, query, runID, date).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanEquityCurve scans multiple rows.
func scanEquityCurve(rows chRows) ([]*domain.EquityCurveSample, error) {
	var samples []*domain.EquityCurveSample

	for rows.Next() {
		var sample domain.EquityCurveSample
		var date time.Time

		err := rows.Scan(
			&sample.RunID, &date, &sample.SpotPrice, &sample.Cash, &sample.StockValue,
			&sample.OptionLiability, &sample.PremiumRealized, &sample.Equity, &sample.Volatility,
		)
		if err != nil {
			return nil, fmt.Errorf("scan equity curve row: %w", err)
		}

		sample.Date = domain.Day(date)
		samples = append(samples, &sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate equity curve rows: %w", err)
	}

	return samples, nil
}

// chRows is the subset of driver.Rows the scanners need.
type chRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}
