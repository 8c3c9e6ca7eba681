package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covered-call-lab/internal/domain"
	"covered-call-lab/internal/storage"
)

func testSample(runID string, date time.Time, equity float64) *domain.EquityCurveSample {
	return &domain.EquityCurveSample{
		RunID:           runID,
		Date:            date,
		SpotPrice:       2.00,
		Cash:            150,
		StockValue:      2000,
		OptionLiability: 12.5,
		PremiumRealized: 0,
		Equity:          equity,
		Volatility:      0.45,
	}
}

func TestEquityCurveStore_InsertAndGetByRunID(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	store := NewEquityCurveStore(conn)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	samples := []*domain.EquityCurveSample{
		testSample("run-1", start, 2137.5),
		testSample("run-1", start.AddDate(0, 0, 1), 2140.0),
		testSample("run-2", start, 2000.0),
	}
	require.NoError(t, store.InsertBulk(ctx, samples))

	got, err := store.GetByRunID(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, samples[0], got[0])
	assert.Equal(t, samples[1], got[1])

	missing, err := store.GetByRunID(ctx, "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestEquityCurveStore_RejectsDuplicates(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	store := NewEquityCurveStore(conn)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	// intra-batch duplicate
	err := store.InsertBulk(ctx, []*domain.EquityCurveSample{
		testSample("run-1", day, 2000),
		testSample("run-1", day, 2001),
	})
	require.ErrorIs(t, err, storage.ErrDuplicateKey)

	// duplicate against an existing row
	require.NoError(t, store.InsertBulk(ctx, []*domain.EquityCurveSample{
		testSample("run-1", day, 2000),
	}))
	err = store.InsertBulk(ctx, []*domain.EquityCurveSample{
		testSample("run-1", day, 2001),
	})
	require.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestEquityCurveStore_GetByDateRangeInclusive(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	store := NewEquityCurveStore(conn)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	var samples []*domain.EquityCurveSample
	for i := 0; i < 5; i++ {
		samples = append(samples, testSample("run-1", start.AddDate(0, 0, i), 2000+float64(i)))
	}
	require.NoError(t, store.InsertBulk(ctx, samples))

	got, err := store.GetByDateRange(ctx, "run-1", start.AddDate(0, 0, 1), start.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, samples[1].Date, got[0].Date)
	assert.Equal(t, samples[3].Date, got[2].Date)
}

func TestEquityCurveStore_InvalidInput(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	store := NewEquityCurveStore(conn)

	err := store.InsertBulk(ctx, []*domain.EquityCurveSample{
		testSample("", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 2000),
	})
	require.ErrorIs(t, err, storage.ErrInvalidInput)

	require.NoError(t, store.InsertBulk(ctx, nil))
}
