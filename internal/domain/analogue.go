package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrNoAnalogues is returned when history holds nothing from the query's month.
var ErrNoAnalogues = errors.New("no historical analogues")

// SelectAnalogues returns the historical records that stand in for date: the
// same month with day-of-month within one of date's, from any year. If that
// window is empty it widens to the whole month.
func SelectAnalogues(history []WeatherRecord, date time.Time) ([]WeatherRecord, error) {
	month, day := date.Month(), date.Day()

	var window, sameMonth []WeatherRecord
	for _, rec := range history {
		if rec.Date.Month() != month {
			continue
		}
		sameMonth = append(sameMonth, rec)
		if d := rec.Date.Day(); d >= day-1 && d <= day+1 {
			window = append(window, rec)
		}
	}

	switch {
	case len(window) > 0:
		return window, nil
	case len(sameMonth) > 0:
		return sameMonth, nil
	default:
		return nil, fmt.Errorf("%w for %s", ErrNoAnalogues, date.Format(time.DateOnly))
	}
}

// MeanRecord averages every column across records, skipping missing values.
// A column with no known values stays missing. The result carries the date of
// the first record.
func MeanRecord(records []WeatherRecord) WeatherRecord {
	if len(records) == 0 {
		return NewWeatherRecord(time.Time{})
	}
	mean := NewWeatherRecord(records[0].Date)

	for _, col := range ObservationColumns {
		vals := make([]float64, 0, len(records))
		for _, rec := range records {
			v, _ := rec.Value(col)
			vals = append(vals, v)
		}
		mean.SetValue(col, nanMean(vals))
	}

	extras := make(map[string][]float64)
	for _, rec := range records {
		for name, v := range rec.Extra {
			extras[name] = append(extras[name], v)
		}
	}
	for name, vals := range extras {
		mean.SetValue(name, nanMean(vals))
	}

	return mean
}

func nanMean(vals []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range vals {
		if isMissing(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
