package domain

import "time"

// Trade outcome codes. One per closed trade.
const (
	OutcomeExpiredWorthless = "EXPIRED_WORTHLESS"
	OutcomeCalledAway       = "CALLED_AWAY"
	OutcomeRolled           = "ROLLED"
)

// TradeRecord is one closed covered-call trade. Append-only: premium and
// costs are fixed at close and never renegotiated.
type TradeRecord struct {
	TradeID string // deterministic hash
	RunID   string // owning backtest run

	OpenDate  time.Time
	CloseDate time.Time
	Contract  OptionContract
	Contracts int

	OpenSpot  float64 // underlying close when the call was sold
	CloseSpot float64 // underlying close when the trade resolved

	PremiumReceived float64 // net of spread and commission at open
	BuybackCost     float64 // paid to close early; 0 unless rolled
	NetPnL          float64 // premium received minus buyback cost

	Outcome string // EXPIRED_WORTHLESS | CALLED_AWAY | ROLLED
}
