package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covered-call-lab/internal/domain"
	"covered-call-lab/internal/storage"
)

func testRun(runID, ticker string, start time.Time) *domain.RunRecord {
	return &domain.RunRecord{
		RunID:             runID,
		Ticker:            ticker,
		StartDate:         start,
		EndDate:           start.AddDate(0, 6, 0),
		InitialInvestment: 2000,
		FinalEquity:       2150,
		Summary:           domain.BacktestSummary{TotalReturnPct: 7.5, NumTrades: 6},
	}
}

func TestBacktestRunStore_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewBacktestRunStore()
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	run := testRun("run-1", "NXDR", start)
	require.NoError(t, store.Insert(ctx, run))

	got, err := store.GetByID(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run, got)

	// Returned record is a copy: mutations must not leak into the store.
	got.FinalEquity = 0
	again, err := store.GetByID(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 2150.0, again.FinalEquity)
}

func TestBacktestRunStore_DuplicateAndMissing(t *testing.T) {
	ctx := context.Background()
	store := NewBacktestRunStore()
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, testRun("run-1", "NXDR", start)))
	require.ErrorIs(t, store.Insert(ctx, testRun("run-1", "NXDR", start)), storage.ErrDuplicateKey)

	_, err := store.GetByID(ctx, "nope")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.ErrorIs(t, store.Insert(ctx, &domain.RunRecord{}), storage.ErrInvalidInput)
	require.ErrorIs(t, store.Insert(ctx, nil), storage.ErrInvalidInput)
}

func TestBacktestRunStore_GetByTickerSorted(t *testing.T) {
	ctx := context.Background()
	store := NewBacktestRunStore()
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, testRun("run-b", "NXDR", start.AddDate(0, 1, 0))))
	require.NoError(t, store.Insert(ctx, testRun("run-a", "NXDR", start)))
	require.NoError(t, store.Insert(ctx, testRun("run-c", "OTHER", start)))

	runs, err := store.GetByTicker(ctx, "NXDR")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-a", runs[0].RunID)
	assert.Equal(t, "run-b", runs[1].RunID)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
