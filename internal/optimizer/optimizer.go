// Package optimizer ranks strike/expiration combinations for selling
// covered calls, balancing premium income against assignment risk.
package optimizer

import (
	"fmt"
	"sort"

	"covered-call-lab/internal/domain"
	"covered-call-lab/internal/pricing"
)

// otmBuffer keeps candidate strikes above spot so sold calls leave
// upside participation.
const otmBuffer = 1.02

// Composite score weights.
const (
	incomeWeight    = 0.5
	deltaWeight     = 0.3
	upsideWeight    = 0.2
	upsideRoomScale = 0.30 // upside room saturates at +30%
	deltaDecaySlope = 3.0  // sweet-spot score decay per unit of delta distance
	deltaScoreFloor = 0.1
)

// Combo is one analyzed strike/expiration candidate.
type Combo struct {
	Strike           float64
	DTE              int
	TheoreticalPrice float64 // per-share mid
	NetPremium       float64 // total proceeds after sell-side costs
	Delta            float64
	ThetaDaily       float64
	AnnualizedReturn float64 // net premium over capital at risk, scaled to a year
	UpsidePct        float64 // (strike - spot) / spot
	Score            float64
}

// Optimizer evaluates the configured strike and DTE grids.
type Optimizer struct {
	cfg domain.StrategyConfig
}

// New creates an Optimizer for the given configuration.
func New(cfg domain.StrategyConfig) *Optimizer {
	return &Optimizer{cfg: cfg}
}

// Optimize evaluates every (strike, DTE) pair with strike >= MinStrike
// and strike above spot, returning combos sorted descending by score.
// Ties break to the lower DTE (capital efficiency), then lower strike.
//
// Iteration order is fixed: strikes ascending, DTEs ascending, so results
// are byte-identical across invocations.
func (o *Optimizer) Optimize(spot, vol float64) ([]*Combo, error) {
	return o.OptimizeGrid(spot, vol, o.cfg.StrikeCandidates, o.cfg.DTECandidates())
}

// OptimizeGrid is Optimize over explicit candidate grids.
func (o *Optimizer) OptimizeGrid(spot, vol float64, strikes []float64, dtes []int) ([]*Combo, error) {
	if spot <= 0 {
		return nil, fmt.Errorf("%w: spot must be > 0, got %g", domain.ErrInvalidInput, spot)
	}

	var combos []*Combo
	for _, strike := range strikes {
		if strike < o.cfg.MinStrike {
			continue
		}
		if strike <= spot*otmBuffer {
			continue
		}
		for _, dte := range dtes {
			combo, err := o.Analyze(spot, strike, dte, vol)
			if err != nil {
				return nil, err
			}
			combos = append(combos, combo)
		}
	}

	sort.SliceStable(combos, func(i, j int) bool {
		if combos[i].Score != combos[j].Score {
			return combos[i].Score > combos[j].Score
		}
		if combos[i].DTE != combos[j].DTE {
			return combos[i].DTE < combos[j].DTE
		}
		return combos[i].Strike < combos[j].Strike
	})

	return combos, nil
}

// Analyze prices a single strike/expiration candidate and scores it.
func (o *Optimizer) Analyze(spot, strike float64, dte int, vol float64) (*Combo, error) {
	if dte <= 0 {
		return nil, fmt.Errorf("%w: DTE must be > 0, got %d", domain.ErrInvalidInput, dte)
	}

	timeYears := float64(dte) / 365.0
	rate := o.cfg.RiskFreeRate

	mid, err := pricing.CallPrice(spot, strike, timeYears, vol, rate)
	if err != nil {
		return nil, err
	}
	delta, err := pricing.Delta(spot, strike, timeYears, vol, rate)
	if err != nil {
		return nil, err
	}
	theta, err := pricing.Theta(spot, strike, timeYears, vol, rate)
	if err != nil {
		return nil, err
	}

	contracts := o.cfg.Contracts()
	net := pricing.SellProceeds(mid, o.cfg.BidAskSpreadPct, o.cfg.CommissionPerContract, contracts, o.cfg.ContractMultiplier)

	capitalAtRisk := strike * float64(contracts*o.cfg.ContractMultiplier)
	annualized := 0.0
	if capitalAtRisk > 0 {
		annualized = (net / capitalAtRisk) * (365.0 / float64(dte))
	}
	upside := (strike - spot) / spot

	return &Combo{
		Strike:           strike,
		DTE:              dte,
		TheoreticalPrice: mid,
		NetPremium:       net,
		Delta:            delta,
		ThetaDaily:       theta,
		AnnualizedReturn: annualized,
		UpsidePct:        upside,
		Score:            o.score(net, annualized, delta, upside),
	}, nil
}

// score combines income, assignment risk, and upside room.
// The delta term peaks at TargetDelta and decays with distance from it;
// the upside term rewards strikes further above spot.
func (o *Optimizer) score(netPremium, annualized, delta, upside float64) float64 {
	if netPremium <= 0 {
		return 0
	}

	deltaScore := 1.0 - abs(delta-o.cfg.TargetDelta)*deltaDecaySlope
	if deltaScore < deltaScoreFloor {
		deltaScore = deltaScoreFloor
	}

	upsideScore := upside / upsideRoomScale
	if upsideScore > 1 {
		upsideScore = 1
	}
	if upsideScore < 0 {
		upsideScore = 0
	}

	return incomeWeight*annualized + deltaWeight*deltaScore + upsideWeight*upsideScore
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
