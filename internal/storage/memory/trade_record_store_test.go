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

func testTrade(tradeID, runID string, open time.Time) *domain.TradeRecord {
	return &domain.TradeRecord{
		TradeID:   tradeID,
		RunID:     runID,
		OpenDate:  open,
		CloseDate: open.AddDate(0, 0, 30),
		Contract: domain.OptionContract{
			Strike:     2.50,
			Expiration: open.AddDate(0, 0, 30),
			Type:       domain.OptionTypeCall,
		},
		Contracts:       10,
		OpenSpot:        2.00,
		CloseSpot:       2.40,
		PremiumReceived: 85,
		NetPnL:          85,
		Outcome:         domain.OutcomeExpiredWorthless,
	}
}

func TestTradeRecordStore_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewTradeRecordStore()
	open := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	trade := testTrade("t-1", "run-1", open)
	require.NoError(t, store.Insert(ctx, trade))

	got, err := store.GetByID(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, trade, got)

	require.ErrorIs(t, store.Insert(ctx, trade), storage.ErrDuplicateKey)

	_, err = store.GetByID(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTradeRecordStore_InsertBulkAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewTradeRecordStore()
	open := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	// Intra-batch duplicate fails the whole batch.
	err := store.InsertBulk(ctx, []*domain.TradeRecord{
		testTrade("t-1", "run-1", open),
		testTrade("t-1", "run-1", open),
	})
	require.ErrorIs(t, err, storage.ErrDuplicateKey)

	_, err = store.GetByID(ctx, "t-1")
	require.ErrorIs(t, err, storage.ErrNotFound, "failed batch must insert nothing")
}

func TestTradeRecordStore_GetByRunIDOrdered(t *testing.T) {
	ctx := context.Background()
	store := NewTradeRecordStore()
	open := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.InsertBulk(ctx, []*domain.TradeRecord{
		testTrade("t-2", "run-1", open.AddDate(0, 0, 30)),
		testTrade("t-1", "run-1", open),
		testTrade("t-3", "run-2", open),
	}))

	trades, err := store.GetByRunID(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "t-1", trades[0].TradeID)
	assert.Equal(t, "t-2", trades[1].TradeID)
}
