package domain

import "time"

// OptionType distinguishes contract kinds. The strategy only sells calls.
type OptionType string

// Option type constants.
const (
	OptionTypeCall OptionType = "CALL"
)

// OptionContract identifies one listed contract. Constant for the life
// of one sale.
type OptionContract struct {
	Strike     float64
	Expiration time.Time // UTC midnight
	Type       OptionType
}

// PositionStatus is the state of the single short-call position.
type PositionStatus string

// Position lifecycle states. Terminal outcomes always return to NONE,
// from which a new OPEN may be entered the same day.
const (
	StatusNone             PositionStatus = "NONE"
	StatusOpen             PositionStatus = "OPEN"
	StatusExpiredWorthless PositionStatus = "EXPIRED_WORTHLESS"
	StatusCalledAway       PositionStatus = "CALLED_AWAY"
	StatusRolled           PositionStatus = "ROLLED"
)

// Position is the single open short-call position against the underlying
// shares. Created by the position engine's open step, replaced by its
// close step, and never mutated externally.
type Position struct {
	Contract        OptionContract
	Contracts       int     // number of contracts sold
	PremiumReceived float64 // total net of spread and commission
	OpenDate        time.Time
	OpenSpot        float64 // underlying close on the open date
	Status          PositionStatus
}

// RemainingDTE returns calendar days until expiration as of the given date.
func (p *Position) RemainingDTE(date time.Time) int {
	return DaysBetween(date, p.Contract.Expiration)
}

// PremiumPerShare returns the net premium received per covered share.
func (p *Position) PremiumPerShare(multiplier int) float64 {
	covered := float64(p.Contracts * multiplier)
	if covered == 0 {
		return 0
	}
	return p.PremiumReceived / covered
}
