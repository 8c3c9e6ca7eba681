package domain

import "time"

// PriceBar is one trading day of the underlying. Immutable once produced.
// Series are chronological with no duplicate dates; calendar gaps
// (weekends, holidays) are legal and carry no bar.
type PriceBar struct {
	Date  time.Time // trading day, normalized to UTC midnight
	Open  float64   // optional, 0 when unknown
	High  float64   // optional, 0 when unknown
	Low   float64   // optional, 0 when unknown
	Close float64
}

// Day normalizes t to UTC midnight so bar dates compare exactly.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns whole calendar days from a to b.
// Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}
