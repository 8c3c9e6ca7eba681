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

func testBars(start time.Time, n int) []domain.PriceBar {
	bars := make([]domain.PriceBar, 0, n)
	for i := 0; i < n; i++ {
		price := 2.00 + float64(i)*0.01
		bars = append(bars, domain.PriceBar{
			Date:  start.AddDate(0, 0, i),
			Open:  price,
			High:  price,
			Low:   price,
			Close: price,
		})
	}
	return bars
}

func TestPriceBarStore_InsertBulkAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewPriceBarStore()
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	bars := testBars(start, 3)
	require.NoError(t, store.InsertBulk(ctx, "NXDR", bars))
	require.NoError(t, store.InsertBulk(ctx, "OTHER", bars))

	got, err := store.GetByTicker(ctx, "NXDR")
	require.NoError(t, err)
	assert.Equal(t, bars, got)
}

func TestPriceBarStore_DuplicateRejected(t *testing.T) {
	ctx := context.Background()
	store := NewPriceBarStore()
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.InsertBulk(ctx, "NXDR", testBars(start, 2)))
	require.ErrorIs(t, store.InsertBulk(ctx, "NXDR", testBars(start.AddDate(0, 0, 1), 2)),
		storage.ErrDuplicateKey)

	require.ErrorIs(t, store.InsertBulk(ctx, "", testBars(start, 1)), storage.ErrInvalidInput)
}

func TestPriceBarStore_GetByDateRangeInclusive(t *testing.T) {
	ctx := context.Background()
	store := NewPriceBarStore()
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.InsertBulk(ctx, "NXDR", testBars(start, 5)))

	got, err := store.GetByDateRange(ctx, "NXDR", start.AddDate(0, 0, 1), start.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, start.AddDate(0, 0, 1), got[0].Date)
}
