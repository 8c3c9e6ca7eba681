package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"covered-call-lab/internal/domain"
	"covered-call-lab/internal/storage"
)

// barKey identifies one daily bar.
type barKey struct {
	ticker string
	date   time.Time
}

// PriceBarStore is an in-memory implementation of storage.PriceBarStore.
type PriceBarStore struct {
	mu   sync.RWMutex
	data map[barKey]domain.PriceBar
}

// NewPriceBarStore creates a new in-memory price bar store.
func NewPriceBarStore() *PriceBarStore {
	return &PriceBarStore{
		data: make(map[barKey]domain.PriceBar),
	}
}

// InsertBulk adds multiple bars for a ticker. Fails entire batch on duplicate (ticker, date).
func (s *PriceBarStore) InsertBulk(_ context.Context, ticker string, bars []domain.PriceBar) error {
	if ticker == "" {
		return storage.ErrInvalidInput
	}
	if len(bars) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[barKey]struct{}, len(bars))
	for _, b := range bars {
		k := barKey{ticker, domain.Day(b.Date)}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, b := range bars {
		s.data[barKey{ticker, domain.Day(b.Date)}] = b
	}

	return nil
}

// GetByTicker retrieves all bars for a ticker, ordered by date ASC.
func (s *PriceBarStore) GetByTicker(_ context.Context, ticker string) ([]domain.PriceBar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.PriceBar
	for k, b := range s.data {
		if k.ticker == ticker {
			result = append(result, b)
		}
	}

	sortBars(result)
	return result, nil
}

// GetByDateRange retrieves bars for a ticker within [start, end] (inclusive).
func (s *PriceBarStore) GetByDateRange(_ context.Context, ticker string, start, end time.Time) ([]domain.PriceBar, error) {
	startDay, endDay := domain.Day(start), domain.Day(end)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.PriceBar
	for k, b := range s.data {
		if k.ticker != ticker {
			continue
		}
		if k.date.Before(startDay) || k.date.After(endDay) {
			continue
		}
		result = append(result, b)
	}

	sortBars(result)
	return result, nil
}

func sortBars(bars []domain.PriceBar) {
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})
}

var _ storage.PriceBarStore = (*PriceBarStore)(nil)
