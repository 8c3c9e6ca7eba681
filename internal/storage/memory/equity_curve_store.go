package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"covered-call-lab/internal/domain"
	"covered-call-lab/internal/storage"
)

// curveKey identifies one equity curve sample.
type curveKey struct {
	runID string
	date  time.Time
}

// EquityCurveStore is an in-memory implementation of storage.EquityCurveStore.
type EquityCurveStore struct {
	mu   sync.RWMutex
	data map[curveKey]*domain.EquityCurveSample
}

// NewEquityCurveStore creates a new in-memory equity curve store.
func NewEquityCurveStore() *EquityCurveStore {
	return &EquityCurveStore{
		data: make(map[curveKey]*domain.EquityCurveSample),
	}
}

// InsertBulk adds multiple samples. Fails entire batch on duplicate (run_id, date).
func (s *EquityCurveStore) InsertBulk(_ context.Context, samples []*domain.EquityCurveSample) error {
	if len(samples) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[curveKey]struct{}, len(samples))
	for _, sample := range samples {
		if sample == nil || sample.RunID == "" {
			return storage.ErrInvalidInput
		}
		k := curveKey{sample.RunID, domain.Day(sample.Date)}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, sample := range samples {
		copy := *sample
		s.data[curveKey{sample.RunID, domain.Day(sample.Date)}] = &copy
	}

	return nil
}

// GetByRunID retrieves the full curve for a run, ordered by date ASC.
func (s *EquityCurveStore) GetByRunID(_ context.Context, runID string) ([]*domain.EquityCurveSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.EquityCurveSample
	for k, sample := range s.data {
		if k.runID == runID {
			copy := *sample
			result = append(result, &copy)
		}
	}

	sortSamples(result)
	return result, nil
}

// GetByDateRange retrieves samples for a run within [start, end] (inclusive).
func (s *EquityCurveStore) GetByDateRange(_ context.Context, runID string, start, end time.Time) ([]*domain.EquityCurveSample, error) {
	startDay, endDay := domain.Day(start), domain.Day(end)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.EquityCurveSample
	for k, sample := range s.data {
		if k.runID != runID {
			continue
		}
		if k.date.Before(startDay) || k.date.After(endDay) {
			continue
		}
		copy := *sample
		result = append(result, &copy)
	}

	sortSamples(result)
	return result, nil
}

func sortSamples(samples []*domain.EquityCurveSample) {
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Date.Before(samples[j].Date)
	})
}

var _ storage.EquityCurveStore = (*EquityCurveStore)(nil)
