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

func testBar(date time.Time, close float64) domain.PriceBar {
	return domain.PriceBar{
		Date:  date,
		Open:  close - 0.02,
		High:  close + 0.05,
		Low:   close - 0.05,
		Close: close,
	}
}

func TestPriceBarStore_InsertAndGetByTicker(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	store := NewPriceBarStore(conn)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	bars := []domain.PriceBar{
		testBar(start, 2.00),
		testBar(start.AddDate(0, 0, 1), 2.05),
		testBar(start.AddDate(0, 0, 2), 1.98),
	}
	require.NoError(t, store.InsertBulk(ctx, "NXDR", bars))
	require.NoError(t, store.InsertBulk(ctx, "OTHER", bars[:1]))

	got, err := store.GetByTicker(ctx, "NXDR")
	require.NoError(t, err)
	assert.Equal(t, bars, got)

	missing, err := store.GetByTicker(ctx, "no-such-ticker")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestPriceBarStore_RejectsDuplicates(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	store := NewPriceBarStore(conn)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	err := store.InsertBulk(ctx, "NXDR", []domain.PriceBar{
		testBar(day, 2.00),
		testBar(day, 2.01),
	})
	require.ErrorIs(t, err, storage.ErrDuplicateKey)

	require.NoError(t, store.InsertBulk(ctx, "NXDR", []domain.PriceBar{testBar(day, 2.00)}))
	err = store.InsertBulk(ctx, "NXDR", []domain.PriceBar{testBar(day, 2.01)})
	require.ErrorIs(t, err, storage.ErrDuplicateKey)

	// same date under a different ticker is fine
	require.NoError(t, store.InsertBulk(ctx, "OTHER", []domain.PriceBar{testBar(day, 2.01)}))
}

func TestPriceBarStore_GetByDateRangeInclusive(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	store := NewPriceBarStore(conn)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	var bars []domain.PriceBar
	for i := 0; i < 5; i++ {
		bars = append(bars, testBar(start.AddDate(0, 0, i), 2.00+float64(i)*0.01))
	}
	require.NoError(t, store.InsertBulk(ctx, "NXDR", bars))

	got, err := store.GetByDateRange(ctx, "NXDR", start.AddDate(0, 0, 1), start.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, bars[1:4], got)
}

func TestPriceBarStore_InvalidInput(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	store := NewPriceBarStore(conn)

	err := store.InsertBulk(ctx, "", []domain.PriceBar{testBar(time.Now(), 2.00)})
	require.ErrorIs(t, err, storage.ErrInvalidInput)

	require.NoError(t, store.InsertBulk(ctx, "NXDR", nil))
}
