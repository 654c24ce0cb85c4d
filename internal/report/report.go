// Package report renders prediction results as plain-text blocks and tables.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/couchcryptid/raincast/internal/domain"
	"github.com/couchcryptid/raincast/internal/pipeline"
)

const (
	ruleWidth = 80

	colDate           = 12
	colPrediction     = 10
	colProbability    = 15
	colInterpretation = 15
)

var rule = strings.Repeat("-", ruleWidth)

// WriteSingle prints the block for a one-day prediction.
func WriteSingle(w io.Writer, r domain.PredictionResult) error {
	ew := &errWriter{w: w}
	ew.printf("\nPrediction for %s:\n", r.Date.Format(time.DateOnly))
	ew.printf("Result: %s\n", r.Label())
	if math.IsNaN(r.Probability) {
		ew.printf("Rain probability: not available\n")
	} else {
		ew.printf("Rain probability: %.2f%%\n", r.Percent())
	}
	ew.printf("Interpretation: %s\n", r.Bucket)
	return ew.err
}

// WriteRange prints the forecast table for start..end.
func WriteRange(w io.Writer, start, end time.Time, results []domain.PredictionResult) error {
	ew := &errWriter{w: w}
	ew.printf("\nRain forecast from %s to %s:\n", start.Format(time.DateOnly), end.Format(time.DateOnly))
	writeTable(ew, results)
	return ew.err
}

// WriteMonthly prints the month's table followed by its summary. A month
// without results gets no summary.
func WriteMonthly(w io.Writer, m pipeline.MonthlyReport) error {
	ew := &errWriter{w: w}
	ew.printf("\nRain analysis for %s %d:\n", m.Month, m.Year)
	writeTable(ew, m.Results)
	if len(m.Results) == 0 {
		return ew.err
	}

	s := m.Summary
	ew.printf("%s\n", rule)
	ew.printf("Summary for %s %d:\n", m.Month, m.Year)
	ew.printf("Days with rain forecast: %d of %d (%.1f%%)\n", s.RainDays, s.Days, s.RainShare)
	ew.printf("Mean rain probability: %.2f%%\n", s.MeanPercent)
	ew.printf("Maximum probability: %.2f%%\n", s.MaxPercent)
	ew.printf("Minimum probability: %.2f%%\n", s.MinPercent)
	return ew.err
}

// WriteHistory lists stored predictions, newest first.
func WriteHistory(w io.Writer, results []domain.PredictionResult) error {
	ew := &errWriter{w: w}
	if len(results) == 0 {
		ew.printf("No predictions recorded.\n")
		return ew.err
	}
	ew.printf("%s\n", rule)
	ew.printf("%-*s | %-*s | %-*s | %-*s | %s\n",
		colDate, "Date", colPrediction, "Prediction", colProbability, "Probability",
		colInterpretation, "Interpretation", "Predicted at")
	ew.printf("%s\n", rule)
	for _, r := range results {
		ew.printf("%-*s | %-*s | %-*s | %-*s | %s\n",
			colDate, r.Date.Format(time.DateOnly),
			colPrediction, r.Label(),
			colProbability, probability(r),
			colInterpretation, r.Bucket,
			r.PredictedAt.Format(time.DateTime))
	}
	return ew.err
}

func writeTable(ew *errWriter, results []domain.PredictionResult) {
	ew.printf("%s\n", rule)
	ew.printf("%-*s | %-*s | %-*s | %-*s\n",
		colDate, "Date", colPrediction, "Prediction", colProbability, "Probability",
		colInterpretation, "Interpretation")
	ew.printf("%s\n", rule)
	for _, r := range results {
		ew.printf("%-*s | %-*s | %-*s | %-*s\n",
			colDate, r.Date.Format(time.DateOnly),
			colPrediction, r.Label(),
			colProbability, probability(r),
			colInterpretation, r.Bucket)
	}
}

func probability(r domain.PredictionResult) string {
	if math.IsNaN(r.Probability) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", r.Percent())
}

// errWriter keeps the first write error so callers check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
