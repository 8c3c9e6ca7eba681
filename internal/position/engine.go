// Package position owns the lifecycle of the single short-call position:
// strike selection, open, daily evaluation, and close via expiration,
// assignment, or roll.
//
// The daily evaluation is a strict, ordered transition table:
//
//	NONE -> OPEN                                  (open attempt)
//	OPEN -> EXPIRED_WORTHLESS | CALLED_AWAY       (expiration check, first)
//	OPEN -> ROLLED                                (roll check, only if not expired)
//	terminal -> NONE -> OPEN                      (same-day re-entry)
//
// Expiration and roll are structurally exclusive: the roll branch is only
// reachable when the expiration branch did not resolve the position.
package position

import (
	"fmt"
	"time"

	"covered-call-lab/internal/domain"
	"covered-call-lab/internal/optimizer"
	"covered-call-lab/internal/pricing"
)

// Engine holds the mutable position state for one backtest run.
// Each run owns its own Engine, so comparison runs stay isolated.
type Engine struct {
	cfg domain.StrategyConfig
	opt *optimizer.Optimizer
	pos *domain.Position // nil when flat
}

// DayOutcome reports the effects of one daily evaluation.
type DayOutcome struct {
	Opened *domain.Position    // new position opened today, nil if none
	Closed *domain.TradeRecord // trade closed today, nil if none

	CalledAway      bool    // shares were assigned at Closed.Contract.Strike
	CashFlow        float64 // net option cash today: premium received minus buyback paid
	PremiumReceived float64 // premium credited today before any buyback
	CommissionsPaid float64
}

// NewEngine creates an Engine with no open position.
func NewEngine(cfg domain.StrategyConfig) *Engine {
	return &Engine{
		cfg: cfg,
		opt: optimizer.New(cfg),
	}
}

// Position returns the current open position, or nil when flat.
func (e *Engine) Position() *domain.Position {
	return e.pos
}

// EvaluateDay advances the position state machine by one trading day.
// Exactly one branch runs: open attempt when flat, expiration resolution
// when the contract is at or past expiry, otherwise the roll check.
func (e *Engine) EvaluateDay(date time.Time, spot, vol float64) (*DayOutcome, error) {
	if spot <= 0 {
		return nil, fmt.Errorf("%w: spot must be > 0, got %g", domain.ErrInvalidInput, spot)
	}
	day := domain.Day(date)
	out := &DayOutcome{}

	switch {
	case e.pos == nil:
		if err := e.tryOpen(day, spot, vol, out); err != nil {
			return nil, err
		}

	case !day.Before(e.pos.Contract.Expiration):
		// Expiration resolves deterministically; the roll branch below is
		// unreachable on any day this branch runs.
		e.resolveExpiration(day, spot, out)
		if err := e.tryOpen(day, spot, vol, out); err != nil {
			return nil, err
		}

	default:
		shouldRoll, err := e.shouldRoll(day, spot, vol)
		if err != nil {
			return nil, err
		}
		if shouldRoll {
			if err := e.roll(day, spot, vol, out); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// tryOpen attempts to sell a new call. It leaves the engine flat when no
// candidate clears the minimum net-premium floor.
func (e *Engine) tryOpen(day time.Time, spot, vol float64, out *DayOutcome) error {
	combo, err := e.selectContract(spot, vol)
	if err != nil {
		return err
	}
	if combo == nil || combo.NetPremium <= e.cfg.MinNetPremium {
		// Selling at or below the floor would net a loss after costs.
		return nil
	}

	contracts := e.cfg.Contracts()
	e.pos = &domain.Position{
		Contract: domain.OptionContract{
			Strike:     combo.Strike,
			Expiration: day.AddDate(0, 0, combo.DTE),
			Type:       domain.OptionTypeCall,
		},
		Contracts:       contracts,
		PremiumReceived: combo.NetPremium,
		OpenDate:        day,
		OpenSpot:        spot,
		Status:          domain.StatusOpen,
	}

	out.Opened = e.pos
	out.CashFlow += combo.NetPremium
	out.PremiumReceived += combo.NetPremium
	out.CommissionsPaid += e.cfg.CommissionPerContract * float64(contracts)
	return nil
}

// selectContract picks the best contract for a new sale. With a single
// candidate DTE, strikes are scored by annualized return penalized by
// delta; with several, the composite optimizer ranking decides.
func (e *Engine) selectContract(spot, vol float64) (*optimizer.Combo, error) {
	dtes := e.cfg.DTECandidates()

	if len(dtes) > 1 {
		combos, err := e.opt.Optimize(spot, vol)
		if err != nil {
			return nil, err
		}
		if len(combos) == 0 {
			return nil, nil
		}
		return combos[0], nil
	}

	combos, err := e.opt.OptimizeGrid(spot, vol, e.cfg.StrikeCandidates, dtes)
	if err != nil {
		return nil, err
	}

	var best *optimizer.Combo
	bestScore := 0.0
	for _, c := range combos {
		score := c.AnnualizedReturn - e.cfg.DeltaPenaltyWeight*c.Delta
		if best == nil || score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best, nil
}

// resolveExpiration closes the position at expiry: CALLED_AWAY when spot
// is at or above strike, EXPIRED_WORTHLESS otherwise.
func (e *Engine) resolveExpiration(day time.Time, spot float64, out *DayOutcome) {
	pos := e.pos

	outcome := domain.OutcomeExpiredWorthless
	status := domain.StatusExpiredWorthless
	if spot >= pos.Contract.Strike {
		outcome = domain.OutcomeCalledAway
		status = domain.StatusCalledAway
		out.CalledAway = true
	}
	pos.Status = status

	out.Closed = &domain.TradeRecord{
		OpenDate:        pos.OpenDate,
		CloseDate:       day,
		Contract:        pos.Contract,
		Contracts:       pos.Contracts,
		OpenSpot:        pos.OpenSpot,
		CloseSpot:       spot,
		PremiumReceived: pos.PremiumReceived,
		NetPnL:          pos.PremiumReceived,
		Outcome:         outcome,
	}
	e.pos = nil
}

// shouldRoll reports whether to close the unexpired position early:
// either the remaining DTE fell to the roll threshold, or the position
// already captured the configured fraction of its maximum profit.
func (e *Engine) shouldRoll(day time.Time, spot, vol float64) (bool, error) {
	pos := e.pos
	remaining := pos.RemainingDTE(day)

	if remaining <= e.cfg.RollDTEThreshold {
		return true, nil
	}

	current, err := pricing.CallPrice(spot, pos.Contract.Strike, float64(remaining)/365.0, vol, e.cfg.RiskFreeRate)
	if err != nil {
		return false, err
	}
	perShare := pos.PremiumPerShare(e.cfg.ContractMultiplier)
	captured := perShare - current

	return perShare > 0 && captured >= perShare*e.cfg.RollProfitFraction, nil
}

// roll buys back the current contract at its theoretical price (buy-side
// costs applied) and immediately attempts to open a replacement.
func (e *Engine) roll(day time.Time, spot, vol float64, out *DayOutcome) error {
	pos := e.pos
	remaining := pos.RemainingDTE(day)

	mid, err := pricing.CallPrice(spot, pos.Contract.Strike, float64(remaining)/365.0, vol, e.cfg.RiskFreeRate)
	if err != nil {
		return err
	}
	cost := pricing.BuybackCost(mid, e.cfg.BidAskSpreadPct, e.cfg.CommissionPerContract, pos.Contracts, e.cfg.ContractMultiplier)

	pos.Status = domain.StatusRolled
	out.Closed = &domain.TradeRecord{
		OpenDate:        pos.OpenDate,
		CloseDate:       day,
		Contract:        pos.Contract,
		Contracts:       pos.Contracts,
		OpenSpot:        pos.OpenSpot,
		CloseSpot:       spot,
		PremiumReceived: pos.PremiumReceived,
		BuybackCost:     cost,
		NetPnL:          pos.PremiumReceived - cost,
		Outcome:         domain.OutcomeRolled,
	}
	out.CashFlow -= cost
	out.CommissionsPaid += e.cfg.CommissionPerContract * float64(pos.Contracts)
	e.pos = nil

	return e.tryOpen(day, spot, vol, out)
}
