package clickhouse

import (
	"context"
	"fmt"
	"time"

	"covered-call-lab/internal/domain"
	"covered-call-lab/internal/storage"
)

// PriceBarStore implements storage.PriceBarStore using ClickHouse.
type PriceBarStore struct {
	conn *Conn
}

// NewPriceBarStore creates a new PriceBarStore.
func NewPriceBarStore(conn *Conn) *PriceBarStore {
	return &PriceBarStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceBarStore = (*PriceBarStore)(nil)

// InsertBulk adds multiple bars for a ticker. Fails entire batch on duplicate (ticker, date).
func (s *PriceBarStore) InsertBulk(ctx context.Context, ticker string, bars []domain.PriceBar) error {
	if ticker == "" {
		return storage.ErrInvalidInput
	}
	if len(bars) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[time.Time]struct{})
	for _, b := range bars {
		day := domain.Day(b.Date)
		if _, exists := seen[day]; exists {
			return storage.ErrDuplicateKey
		}
		seen[day] = struct{}{}
	}

	// MergeTree does not enforce uniqueness, so check existing rows first
	for _, b := range bars {
		exists, err := s.exists(ctx, ticker, domain.Day(b.Date))
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_bars (ticker, date, open, high, low, close)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, b := range bars {
		err = batch.Append(ticker, domain.Day(b.Date), b.Open, b.High, b.Low, b.Close)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByTicker retrieves all bars for a ticker, ordered by date ASC.
func (s *PriceBarStore) GetByTicker(ctx context.Context, ticker string) ([]domain.PriceBar, error) {
	query := `
		SELECT date, open, high, low, close
		FROM price_bars
		WHERE ticker = ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("query by ticker: %w", err)
	}
	defer rows.Close()

	return scanPriceBars(rows)
}

// GetByDateRange retrieves bars for a ticker within [start, end] (inclusive).
func (s *PriceBarStore) GetByDateRange(ctx context.Context, ticker string, start, end time.Time) ([]domain.PriceBar, error) {
	query := `
		SELECT date, open, high, low, close
		FROM price_bars
		WHERE ticker = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, ticker, domain.Day(start), domain.Day(end))
	if err != nil {
		return nil, fmt.Errorf("query by date range: %w", err)
	}
	defer rows.Close()

	return scanPriceBars(rows)
}

// exists checks if a bar with the given key exists.
func (s *PriceBarStore) exists(ctx context.Context, ticker string, date time.Time) (bool, error) {
	query := `SELECT count(*) FROM price_bars WHERE ticker = ? AND date = ?`

	var count uint64
	err := s.conn.QueryRow(ctx, query, ticker, date).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanPriceBars scans multiple rows.
func scanPriceBars(rows chRows) ([]domain.PriceBar, error) {
	var bars []domain.PriceBar

	for rows.Next() {
		var b domain.PriceBar
		var date time.Time

		err := rows.Scan(&date, &b.Open, &b.High, &b.Low, &b.Close)
		if err != nil {
			return nil, fmt.Errorf("scan price bar row: %w", err)
		}

		b.Date = domain.Day(date)
		bars = append(bars, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price bar rows: %w", err)
	}

	return bars, nil
}
