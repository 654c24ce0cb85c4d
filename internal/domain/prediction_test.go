package domain

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestInterpret(t *testing.T) {
	tests := []struct {
		percent float64
		want    Bucket
	}{
		{0, BucketVeryLow},
		{19.99, BucketVeryLow},
		{20, BucketLow},
		{39.5, BucketLow},
		{40, BucketModerate},
		{59.99, BucketModerate},
		{60, BucketHigh},
		{79.9, BucketHigh},
		{80, BucketVeryHigh},
		{100, BucketVeryHigh},
		{math.NaN(), BucketUndetermined},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Interpret(tt.percent), "percent %v", tt.percent)
	}
}

func TestNewPredictionResult(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	defer SetClock(nil)

	res := NewPredictionResult(
		time.Date(2026, 11, 2, 15, 4, 0, 0, time.UTC),
		Classification{Rain: true, Probability: 0.734},
		12, "run-1",
	)

	assert.Equal(t, day(2026, 11, 2), res.Date)
	assert.Equal(t, BucketHigh, res.Bucket)
	assert.Equal(t, LabelRain, res.Label())
	assert.InDelta(t, 73.4, res.Percent(), 1e-9)
	assert.Equal(t, 12, res.Analogues)
	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, now, res.PredictedAt)
	assert.Equal(t, day(2026, 10, 18), Today())
}

func TestSummarize(t *testing.T) {
	results := []PredictionResult{
		{Rain: true, Probability: 0.9},
		{Rain: false, Probability: 0.1},
		{Rain: true, Probability: 0.65},
		{Rain: false, Probability: 0.25},
	}

	s := Summarize(results)

	assert.Equal(t, 2, s.RainDays)
	assert.Equal(t, 4, s.Days)
	assert.InDelta(t, 50.0, s.RainShare, 1e-9)
	assert.InDelta(t, 47.5, s.MeanPercent, 1e-9)
	assert.InDelta(t, 90.0, s.MaxPercent, 1e-9)
	assert.InDelta(t, 10.0, s.MinPercent, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, MonthlySummary{}, Summarize(nil))
}
