// Package memory provides in-memory store implementations, used for
// tests and single-process runs without external databases.
package memory

import (
	"context"
	"sort"
	"sync"

	"covered-call-lab/internal/domain"
	"covered-call-lab/internal/storage"
)

// BacktestRunStore is an in-memory implementation of storage.BacktestRunStore.
type BacktestRunStore struct {
	mu   sync.RWMutex
	data map[string]*domain.RunRecord // keyed by run_id
}

// NewBacktestRunStore creates a new in-memory run store.
func NewBacktestRunStore() *BacktestRunStore {
	return &BacktestRunStore{
		data: make(map[string]*domain.RunRecord),
	}
}

// Insert adds a new run record. Returns ErrDuplicateKey if run_id exists.
func (s *BacktestRunStore) Insert(_ context.Context, r *domain.RunRecord) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	s.data[r.RunID] = &copy
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *BacktestRunStore) GetByID(_ context.Context, runID string) (*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *r
	return &copy, nil
}

// GetByTicker retrieves all runs for a ticker, ordered by start_date ASC.
func (s *BacktestRunStore) GetByTicker(_ context.Context, ticker string) ([]*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.RunRecord
	for _, r := range s.data {
		if r.Ticker == ticker {
			copy := *r
			result = append(result, &copy)
		}
	}

	sortRunRecords(result)
	return result, nil
}

// GetAll retrieves all runs, ordered by start_date ASC, run_id ASC.
func (s *BacktestRunStore) GetAll(_ context.Context) ([]*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.RunRecord, 0, len(s.data))
	for _, r := range s.data {
		copy := *r
		result = append(result, &copy)
	}

	sortRunRecords(result)
	return result, nil
}

func sortRunRecords(runs []*domain.RunRecord) {
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartDate.Equal(runs[j].StartDate) {
			return runs[i].StartDate.Before(runs[j].StartDate)
		}
		return runs[i].RunID < runs[j].RunID
	})
}

var _ storage.BacktestRunStore = (*BacktestRunStore)(nil)
