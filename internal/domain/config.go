package domain

import "fmt"

// StrategyConfig holds all knobs for one covered-call backtest run.
// Immutable input: the engine validates it once at run start and never
// writes to it, so parallel comparison runs may share a copy freely.
type StrategyConfig struct {
	Label  string // optional run label for comparison tables
	Ticker string

	// Position sizing
	Shares             int // underlying shares held long
	ContractMultiplier int // shares per option contract

	// Strike selection
	MinStrike          float64   // never sell calls struck below this
	StrikeCandidates   []float64 // evaluated in ascending order
	DeltaPenaltyWeight float64   // strike score = annualized return - weight*delta
	TargetDelta        float64   // optimizer sweet-spot center

	// Expiration preferences (calendar days)
	TargetDTE     int
	CandidateDTEs []int // evaluated in ascending order; empty means TargetDTE only

	// Roll logic
	RollDTEThreshold   int     // roll when remaining DTE <= threshold
	RollProfitFraction float64 // roll when captured profit >= fraction of premium

	// Costs
	BidAskSpreadPct       float64 // fraction of mid lost round-trip to the spread
	CommissionPerContract float64
	MinNetPremium         float64 // skip opening below this net premium

	// Volatility estimation
	RiskFreeRate        float64
	VolatilityWindow    int     // trailing log-return window (bars)
	IVPremiumMultiplier float64 // scales historical vol to an IV proxy
	MinVolatility       float64 // IV proxy floor
	DefaultVolatility   float64 // seed when history is too short to estimate

	// Cash floor thesis
	NetCashPerShare       float64 // estimated net cash per share at run start
	CashBurnPerQuarter    float64 // estimated burn per share per quarter
	CashFloorWarningRatio float64 // breach when price/floor drops below this
}

// DefaultConfig returns the baseline configuration for the cash-box name
// the strategy was designed around.
func DefaultConfig() StrategyConfig {
	return StrategyConfig{
		Ticker:                "NXDR",
		Shares:                1000,
		ContractMultiplier:    100,
		MinStrike:             2.50,
		StrikeCandidates:      []float64{2.00, 2.50, 3.00, 3.50, 4.00, 5.00},
		DeltaPenaltyWeight:    0.5,
		TargetDelta:           0.20,
		TargetDTE:             30,
		CandidateDTEs:         []int{14, 21, 30, 45},
		RollDTEThreshold:      5,
		RollProfitFraction:    0.80,
		BidAskSpreadPct:       0.15,
		CommissionPerContract: 0.65,
		MinNetPremium:         0,
		RiskFreeRate:          0.045,
		VolatilityWindow:      20,
		IVPremiumMultiplier:   1.3,
		MinVolatility:         0.30,
		DefaultVolatility:     0.50,
		NetCashPerShare:       1.50,
		CashBurnPerQuarter:    0.10,
		CashFloorWarningRatio: 0.8,
	}
}

// Contracts returns the number of whole contracts the share position covers.
func (c StrategyConfig) Contracts() int {
	if c.ContractMultiplier <= 0 {
		return 0
	}
	return c.Shares / c.ContractMultiplier
}

// Validate fails fast on out-of-range fields before a run starts.
// All violations wrap ErrInvalidInput.
func (c StrategyConfig) Validate() error {
	if c.Shares <= 0 {
		return fmt.Errorf("%w: shares must be > 0, got %d", ErrInvalidInput, c.Shares)
	}
	if c.ContractMultiplier <= 0 {
		return fmt.Errorf("%w: contract multiplier must be > 0, got %d", ErrInvalidInput, c.ContractMultiplier)
	}
	if c.Shares < c.ContractMultiplier {
		return fmt.Errorf("%w: %d shares cover no whole contract (multiplier %d)", ErrInvalidInput, c.Shares, c.ContractMultiplier)
	}
	if c.MinStrike <= 0 {
		return fmt.Errorf("%w: min strike must be > 0, got %g", ErrInvalidInput, c.MinStrike)
	}
	if len(c.StrikeCandidates) == 0 {
		return fmt.Errorf("%w: no strike candidates", ErrInvalidInput)
	}
	for i, k := range c.StrikeCandidates {
		if k <= 0 {
			return fmt.Errorf("%w: strike candidate %d must be > 0, got %g", ErrInvalidInput, i, k)
		}
		if i > 0 && k <= c.StrikeCandidates[i-1] {
			return fmt.Errorf("%w: strike candidates must be strictly ascending", ErrInvalidInput)
		}
	}
	if c.TargetDTE <= 0 {
		return fmt.Errorf("%w: target DTE must be > 0, got %d", ErrInvalidInput, c.TargetDTE)
	}
	for i, d := range c.CandidateDTEs {
		if d <= 0 {
			return fmt.Errorf("%w: candidate DTE %d must be > 0, got %d", ErrInvalidInput, i, d)
		}
		if i > 0 && d <= c.CandidateDTEs[i-1] {
			return fmt.Errorf("%w: candidate DTEs must be strictly ascending", ErrInvalidInput)
		}
	}
	if c.RollDTEThreshold < 0 {
		return fmt.Errorf("%w: roll DTE threshold must be >= 0, got %d", ErrInvalidInput, c.RollDTEThreshold)
	}
	if c.RollProfitFraction < 0 || c.RollProfitFraction > 1 {
		return fmt.Errorf("%w: roll profit fraction must be in [0,1], got %g", ErrInvalidInput, c.RollProfitFraction)
	}
	if c.BidAskSpreadPct < 0 || c.BidAskSpreadPct > 1 {
		return fmt.Errorf("%w: bid-ask spread pct must be in [0,1], got %g", ErrInvalidInput, c.BidAskSpreadPct)
	}
	if c.CommissionPerContract < 0 {
		return fmt.Errorf("%w: commission must be >= 0, got %g", ErrInvalidInput, c.CommissionPerContract)
	}
	if c.MinNetPremium < 0 {
		return fmt.Errorf("%w: min net premium must be >= 0, got %g", ErrInvalidInput, c.MinNetPremium)
	}
	if c.VolatilityWindow < 2 {
		return fmt.Errorf("%w: volatility window must be >= 2 bars, got %d", ErrInvalidInput, c.VolatilityWindow)
	}
	if c.IVPremiumMultiplier <= 0 {
		return fmt.Errorf("%w: IV premium multiplier must be > 0, got %g", ErrInvalidInput, c.IVPremiumMultiplier)
	}
	if c.MinVolatility < 0 {
		return fmt.Errorf("%w: min volatility must be >= 0, got %g", ErrInvalidInput, c.MinVolatility)
	}
	if c.DefaultVolatility <= 0 {
		return fmt.Errorf("%w: default volatility must be > 0, got %g", ErrInvalidInput, c.DefaultVolatility)
	}
	if c.NetCashPerShare < 0 {
		return fmt.Errorf("%w: net cash per share must be >= 0, got %g", ErrInvalidInput, c.NetCashPerShare)
	}
	if c.CashBurnPerQuarter < 0 {
		return fmt.Errorf("%w: cash burn per quarter must be >= 0, got %g", ErrInvalidInput, c.CashBurnPerQuarter)
	}
	if c.CashFloorWarningRatio <= 0 {
		return fmt.Errorf("%w: cash floor warning ratio must be > 0, got %g", ErrInvalidInput, c.CashFloorWarningRatio)
	}
	return nil
}

// DTECandidates returns the expiration candidates in ascending order,
// falling back to TargetDTE when none are configured.
func (c StrategyConfig) DTECandidates() []int {
	if len(c.CandidateDTEs) == 0 {
		return []int{c.TargetDTE}
	}
	return c.CandidateDTEs
}
