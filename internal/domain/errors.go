package domain

import "errors"

// Shared error kinds surfaced to callers of run/optimize.
var (
	// ErrInvalidInput is returned for malformed or out-of-range numeric
	// input to pricing or configuration.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientHistory is returned when volatility estimation is
	// requested before enough trailing bars exist.
	ErrInsufficientHistory = errors.New("insufficient price history")

	// ErrDataIntegrity is returned for price series defects: empty series,
	// non-monotonic dates, or duplicate dates.
	ErrDataIntegrity = errors.New("price series integrity violation")
)
