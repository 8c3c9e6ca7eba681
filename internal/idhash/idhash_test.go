package idhash

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covered-call-lab/internal/domain"
)

func testBars() []domain.PriceBar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return []domain.PriceBar{
		{Date: start, Open: 2.00, High: 2.05, Low: 1.95, Close: 2.00},
		{Date: start.AddDate(0, 0, 1), Open: 2.00, High: 2.10, Low: 2.00, Close: 2.05},
	}
}

func TestComputeRunID_Deterministic(t *testing.T) {
	cfg := domain.DefaultConfig()
	bars := testBars()

	a := ComputeRunID(cfg, bars)
	b := ComputeRunID(cfg, bars)

	require.Len(t, a, 64)
	assert.Equal(t, a, b)
}

func TestComputeRunID_SensitiveToConfigAndData(t *testing.T) {
	cfg := domain.DefaultConfig()
	bars := testBars()
	base := ComputeRunID(cfg, bars)

	cfg2 := cfg
	cfg2.TargetDTE = 45
	assert.NotEqual(t, base, ComputeRunID(cfg2, bars))

	bars2 := testBars()
	bars2[1].Close = 2.06
	assert.NotEqual(t, base, ComputeRunID(cfg, bars2))
}

func TestComputeTradeID_Deterministic(t *testing.T) {
	open := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	exp := open.AddDate(0, 0, 30)

	a := ComputeTradeID("run", open, 2.50, exp)
	b := ComputeTradeID("run", open, 2.50, exp)

	require.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, ComputeTradeID("run", open, 3.00, exp))
}
