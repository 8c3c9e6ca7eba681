package marketdata

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covered-call-lab/internal/domain"
)

func TestValidateSeries_AcceptsCalendarGaps(t *testing.T) {
	friday := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	bars := []domain.PriceBar{
		{Date: friday, Close: 2.00},
		{Date: friday.AddDate(0, 0, 3), Close: 2.05}, // weekend gap
	}

	require.NoError(t, ValidateSeries(bars))
}

func TestValidateSeries_RejectsBadSeries(t *testing.T) {
	day0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		bars []domain.PriceBar
		want error
	}{
		{
			name: "empty",
			bars: nil,
			want: domain.ErrInsufficientHistory,
		},
		{
			name: "duplicate date",
			bars: []domain.PriceBar{
				{Date: day0, Close: 2.00},
				{Date: day0, Close: 2.05},
			},
			want: domain.ErrDataIntegrity,
		},
		{
			name: "out of order",
			bars: []domain.PriceBar{
				{Date: day0.AddDate(0, 0, 1), Close: 2.00},
				{Date: day0, Close: 2.05},
			},
			want: domain.ErrDataIntegrity,
		},
		{
			name: "non-positive close",
			bars: []domain.PriceBar{
				{Date: day0, Close: 0},
			},
			want: domain.ErrDataIntegrity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, ValidateSeries(tt.bars), tt.want)
		})
	}
}

func TestReadCSV_RoundTrip(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := GenerateFlat(start, 5, 2.50)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, bars))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, bars, got)
}

func TestReadCSV_RejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"bad header", "when,open,high,low,close\n"},
		{"bad date", "date,open,high,low,close\n2024-13-99,1,1,1,1\n"},
		{"bad price", "date,open,high,low,close\n2024-01-02,1,1,1,abc\n"},
		{"wrong field count", "date,open,high,low,close\n2024-01-02,1,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in))
			require.ErrorIs(t, err, domain.ErrDataIntegrity)
		})
	}
}

func TestGenerateSynthetic_Deterministic(t *testing.T) {
	p := SyntheticParams{
		Seed:        42,
		Start:       time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Days:        252,
		StartPrice:  2.00,
		AnnualDrift: 0.05,
		AnnualVol:   0.60,
	}

	a := GenerateSynthetic(p)
	b := GenerateSynthetic(p)

	require.Len(t, a, 252)
	assert.Equal(t, a, b)
	require.NoError(t, ValidateSeries(a))
}

func TestGenerateSynthetic_SkipsWeekends(t *testing.T) {
	p := SyntheticParams{
		Seed:       1,
		Start:      time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), // Saturday
		Days:       10,
		StartPrice: 2.00,
		AnnualVol:  0.40,
	}

	for _, b := range GenerateSynthetic(p) {
		wd := b.Date.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
}
