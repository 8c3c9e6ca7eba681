package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"covered-call-lab/internal/domain"
)

const dateLayout = "2006-01-02"

// LoadCSV reads a daily price series from a CSV file with the header
// date,open,high,low,close. The series is validated before returning.
func LoadCSV(path string) ([]domain.PriceBar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open price series: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses a daily price series from r. See LoadCSV for the format.
func ReadCSV(r io.Reader) ([]domain.PriceBar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 5

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing CSV header: %v", domain.ErrDataIntegrity, err)
	}
	if header[0] != "date" {
		return nil, fmt.Errorf("%w: unexpected CSV header %q", domain.ErrDataIntegrity, header)
	}

	var bars []domain.PriceBar
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrDataIntegrity, line, err)
		}

		bar, err := parseBar(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrDataIntegrity, line, err)
		}
		bars = append(bars, bar)
	}

	if err := ValidateSeries(bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// WriteCSV writes a daily price series in the format LoadCSV reads.
func WriteCSV(w io.Writer, bars []domain.PriceBar) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"date", "open", "high", "low", "close"}); err != nil {
		return err
	}
	for _, b := range bars {
		rec := []string{
			b.Date.Format(dateLayout),
			formatPrice(b.Open),
			formatPrice(b.High),
			formatPrice(b.Low),
			formatPrice(b.Close),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func parseBar(rec []string) (domain.PriceBar, error) {
	date, err := time.ParseInLocation(dateLayout, rec[0], time.UTC)
	if err != nil {
		return domain.PriceBar{}, fmt.Errorf("bad date %q", rec[0])
	}

	vals := make([]float64, 4)
	for i, field := range rec[1:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return domain.PriceBar{}, fmt.Errorf("bad price %q", field)
		}
		vals[i] = v
	}

	return domain.PriceBar{
		Date:  date,
		Open:  vals[0],
		High:  vals[1],
		Low:   vals[2],
		Close: vals[3],
	}, nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
