// Package csvsource reads and writes daily observation CSV files.
package csvsource

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/raincast/internal/domain"
)

// naValues are the cell spellings treated as missing.
var naValues = []string{"", "NA", "NaN", "nan", "null", "None"}

// Option adjusts how a CSV is read.
type Option func(*options)

type options struct {
	columns []string
}

// Headerless reads files without a header row, naming columns in order.
func Headerless(columns ...string) Option {
	return func(o *options) { o.columns = columns }
}

// LoadFile reads the CSV at path.
func LoadFile(path string, opts ...Option) ([]domain.WeatherRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open historical data: %w", err)
	}
	defer f.Close()
	return Read(f, opts...)
}

// Read parses observation rows. A date column is required; every other
// column is read as a float, with unparseable or empty cells left missing.
func Read(r io.Reader, opts ...Option) ([]domain.WeatherRecord, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	types := map[string]series.Type{domain.ColDate: series.String}
	for _, col := range domain.ObservationColumns {
		types[col] = series.Float
	}

	loadOpts := []dataframe.LoadOption{
		dataframe.WithTypes(types),
		dataframe.NaNValues(naValues),
	}
	if len(o.columns) > 0 {
		loadOpts = append(loadOpts, dataframe.HasHeader(false), dataframe.Names(o.columns...))
	}

	df := dataframe.ReadCSV(r, loadOpts...)
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %w", df.Err)
	}

	names := df.Names()
	if !contains(names, domain.ColDate) {
		return nil, fmt.Errorf("read csv: missing %q column", domain.ColDate)
	}

	dates := df.Col(domain.ColDate).Records()
	records := make([]domain.WeatherRecord, len(dates))
	for i, raw := range dates {
		t, err := parseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("read csv: row %d: %w", i+1, err)
		}
		records[i] = domain.NewWeatherRecord(t)
	}

	for _, name := range names {
		if name == domain.ColDate {
			continue
		}
		col := df.Col(name)
		if col.Type() != series.Float && col.Type() != series.Int {
			continue
		}
		for i, v := range col.Float() {
			records[i].SetValue(name, v)
		}
	}

	return records, nil
}

// Write emits records with the standard header. Missing values are written
// as empty cells.
func Write(w io.Writer, records []domain.WeatherRecord) error {
	if _, err := fmt.Fprintln(w, strings.Join(append([]string{domain.ColDate}, domain.ObservationColumns...), ",")); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	cells := make([]string, 0, len(domain.ObservationColumns)+1)
	for _, rec := range records {
		cells = append(cells[:0], rec.Date.Format(time.DateOnly))
		for _, col := range domain.ObservationColumns {
			v, _ := rec.Value(col)
			cells = append(cells, formatValue(v))
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, ",")); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	return nil
}

// WriteFile writes records to path, replacing any existing file.
func WriteFile(path string, records []domain.WeatherRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "NaN" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return domain.Day(t), nil
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("%g", v)
}

func contains(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}
