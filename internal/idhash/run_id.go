// Package idhash derives deterministic identifiers so that re-running
// the same inputs reproduces the same IDs.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"covered-call-lab/internal/domain"
)

// ComputeRunID computes a deterministic run_id using SHA256 over the
// full strategy configuration and a fingerprint of the price series
// (date and close of every bar). Identical config and identical data
// always hash to the same run_id.
// Returns hex-encoded hash (64 characters).
func ComputeRunID(cfg domain.StrategyConfig, bars []domain.PriceBar) string {
	h := sha256.New()

	fmt.Fprintf(h, "%s|%s|%d|%d|%g|%v|%g|%g|%d|%v|%d|%g|%g|%g|%g|%g|%d|%g|%g|%g|%g|%g|%g",
		cfg.Label,
		cfg.Ticker,
		cfg.Shares,
		cfg.ContractMultiplier,
		cfg.MinStrike,
		cfg.StrikeCandidates,
		cfg.DeltaPenaltyWeight,
		cfg.TargetDelta,
		cfg.TargetDTE,
		cfg.CandidateDTEs,
		cfg.RollDTEThreshold,
		cfg.RollProfitFraction,
		cfg.BidAskSpreadPct,
		cfg.CommissionPerContract,
		cfg.MinNetPremium,
		cfg.RiskFreeRate,
		cfg.VolatilityWindow,
		cfg.IVPremiumMultiplier,
		cfg.MinVolatility,
		cfg.DefaultVolatility,
		cfg.NetCashPerShare,
		cfg.CashBurnPerQuarter,
		cfg.CashFloorWarningRatio,
	)

	for _, b := range bars {
		fmt.Fprintf(h, "|%s|%g", b.Date.UTC().Format("2006-01-02"), b.Close)
	}

	return hex.EncodeToString(h.Sum(nil))
}
