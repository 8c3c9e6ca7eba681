package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSellProceeds_SellerReceivesBelowMid(t *testing.T) {
	// mid 0.20, 15% spread, 10 contracts x100: 0.20*0.925*1000 - 0.65*10
	got := SellProceeds(0.20, 0.15, 0.65, 10, 100)
	assert.InDelta(t, 178.50, got, 1e-9)
}

func TestBuybackCost_BuyerPaysAboveMid(t *testing.T) {
	got := BuybackCost(0.20, 0.15, 0.65, 10, 100)
	assert.InDelta(t, 0.20*1.075*1000+6.5, got, 1e-9)
}

func TestCostModel_RoundTripAlwaysNetsNegative(t *testing.T) {
	cases := []struct {
		name       string
		mid        float64
		spread     float64
		commission float64
	}{
		{"spread only", 0.25, 0.15, 0},
		{"commission only", 0.25, 0, 0.65},
		{"both", 0.25, 0.10, 0.65},
		{"tiny premium", 0.01, 0.15, 0.65},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sell := SellProceeds(tc.mid, tc.spread, tc.commission, 10, 100)
			buy := BuybackCost(tc.mid, tc.spread, tc.commission, 10, 100)
			assert.Negative(t, sell-buy, "sell then immediate buy-back must lose money")
		})
	}
}

func TestCostModel_FreeTradingIsLossless(t *testing.T) {
	sell := SellProceeds(0.25, 0, 0, 10, 100)
	buy := BuybackCost(0.25, 0, 0, 10, 100)
	assert.Equal(t, sell, buy)
	assert.Equal(t, 250.0, sell)
}
