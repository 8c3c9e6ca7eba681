package pricing

// The spread model is asymmetric around mid: a seller receives the bid
// (below mid) and a buyer pays the ask (above mid). It is applied
// everywhere a contract changes hands so sell-then-buy-back at the same
// mid always nets negative when spread or commission is nonzero.

// SellProceeds returns the net premium received when selling contracts
// at the given per-share mid price.
func SellProceeds(mid, spreadPct, commissionPerContract float64, contracts, multiplier int) float64 {
	size := float64(contracts * multiplier)
	return mid*(1-spreadPct/2)*size - commissionPerContract*float64(contracts)
}

// BuybackCost returns the total paid when buying back contracts at the
// given per-share mid price.
func BuybackCost(mid, spreadPct, commissionPerContract float64, contracts, multiplier int) float64 {
	size := float64(contracts * multiplier)
	return mid*(1+spreadPct/2)*size + commissionPerContract*float64(contracts)
}

// SellPricePerShare returns the per-share price a seller actually receives.
func SellPricePerShare(mid, spreadPct float64) float64 {
	return mid * (1 - spreadPct/2)
}
