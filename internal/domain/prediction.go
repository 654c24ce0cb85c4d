package domain

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bucket is a qualitative reading of a rain probability.
type Bucket string

const (
	BucketVeryLow      Bucket = "Very low"
	BucketLow          Bucket = "Low"
	BucketModerate     Bucket = "Moderate"
	BucketHigh         Bucket = "High"
	BucketVeryHigh     Bucket = "Very high"
	BucketUndetermined Bucket = "Undetermined"
)

// Labels printed for the classifier's two outcomes.
const (
	LabelRain   = "Rain"
	LabelNoRain = "No rain"
)

// Interpret maps a probability in percent onto a bucket:
//
//	<20 very low | <40 low | <60 moderate | <80 high | else very high
//
// NaN yields BucketUndetermined.
func Interpret(percent float64) Bucket {
	switch {
	case math.IsNaN(percent):
		return BucketUndetermined
	case percent < 20:
		return BucketVeryLow
	case percent < 40:
		return BucketLow
	case percent < 60:
		return BucketModerate
	case percent < 80:
		return BucketHigh
	default:
		return BucketVeryHigh
	}
}

// Classification is the raw classifier output for one feature vector.
type Classification struct {
	Rain        bool
	Probability float64 // 0–1
}

// PredictionResult is the outcome of a single-date query.
type PredictionResult struct {
	Date        time.Time `json:"date"`
	Rain        bool      `json:"rain"`
	Probability float64   `json:"probability"` // 0–1
	Bucket      Bucket    `json:"bucket"`
	Analogues   int       `json:"analogues"`
	RunID       string    `json:"run_id,omitempty"`
	PredictedAt time.Time `json:"predicted_at"`
}

// NewPredictionResult stamps a classification for date with its bucket and
// the current time.
func NewPredictionResult(date time.Time, c Classification, analogues int, runID string) PredictionResult {
	return PredictionResult{
		Date:        Day(date),
		Rain:        c.Rain,
		Probability: c.Probability,
		Bucket:      Interpret(c.Probability * 100),
		Analogues:   analogues,
		RunID:       runID,
		PredictedAt: clock.Now().UTC(),
	}
}

// Label returns the human-readable outcome.
func (p PredictionResult) Label() string {
	if p.Rain {
		return LabelRain
	}
	return LabelNoRain
}

// Percent returns the probability scaled to 0–100.
func (p PredictionResult) Percent() float64 {
	return p.Probability * 100
}

// MonthlySummary aggregates the daily predictions of one month. Percentages
// are on a 0–100 scale.
type MonthlySummary struct {
	RainDays    int
	Days        int
	RainShare   float64
	MeanPercent float64
	MaxPercent  float64
	MinPercent  float64
}

// Summarize computes monthly statistics. The zero summary is returned for an
// empty slice.
func Summarize(results []PredictionResult) MonthlySummary {
	if len(results) == 0 {
		return MonthlySummary{}
	}

	percents := make([]float64, len(results))
	rainy := 0
	for i, r := range results {
		percents[i] = r.Percent()
		if r.Rain {
			rainy++
		}
	}

	return MonthlySummary{
		RainDays:    rainy,
		Days:        len(results),
		RainShare:   float64(rainy) / float64(len(results)) * 100,
		MeanPercent: stat.Mean(percents, nil),
		MaxPercent:  floats.Max(percents),
		MinPercent:  floats.Min(percents),
	}
}
