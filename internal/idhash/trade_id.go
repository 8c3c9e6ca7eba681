package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ComputeTradeID computes a deterministic trade_id using SHA256.
// Formula: SHA256(run_id|open_date|strike|expiration)
// Returns hex-encoded hash (64 characters).
func ComputeTradeID(runID string, openDate time.Time, strike float64, expiration time.Time) string {
	data := fmt.Sprintf("%s|%s|%g|%s",
		runID,
		openDate.UTC().Format("2006-01-02"),
		strike,
		expiration.UTC().Format("2006-01-02"),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
