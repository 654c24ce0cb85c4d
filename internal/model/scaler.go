package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes features to zero mean and unit variance.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// FitScaler computes per-column population mean and standard deviation over
// rows. Constant columns get a scale of 1 so they pass through centred.
func FitScaler(rows [][]float64) (*Scaler, error) {
	if len(rows) == 0 {
		return nil, errors.New("fit scaler: no rows")
	}
	width := len(rows[0])

	s := &Scaler{Mean: make([]float64, width), Scale: make([]float64, width)}
	col := make([]float64, len(rows))
	for j := 0; j < width; j++ {
		for i, row := range rows {
			if len(row) != width {
				return nil, fmt.Errorf("fit scaler: row %d has %d values, want %d", i, len(row), width)
			}
			col[i] = row[j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		s.Mean[j], s.Scale[j] = mean, std
	}
	return s, nil
}

// Transform returns (x - mean) / scale without modifying x.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}

func (s *Scaler) validate() error {
	if len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("scaler has %d means and %d scales", len(s.Mean), len(s.Scale))
	}
	for i, sc := range s.Scale {
		if sc == 0 {
			return fmt.Errorf("scaler scale[%d] is zero", i)
		}
	}
	return nil
}
