// Package pipeline answers prediction queries: it turns dates into feature
// vectors via historical analogues, classifies them and hands the results to
// any configured sinks.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/couchcryptid/raincast/internal/domain"
	"github.com/couchcryptid/raincast/internal/observability"
)

var (
	// ErrInvalidRange is returned when a range starts after it ends.
	ErrInvalidRange = errors.New("start date must not be after end date")

	// ErrInvalidMonth is returned for a month outside 1–12.
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
)

// Classifier maps a feature vector to a rain classification.
type Classifier interface {
	Classify(v domain.FeatureVector) (domain.Classification, error)
}

// BatchLoader receives the results of one query.
type BatchLoader interface {
	LoadBatch(ctx context.Context, results []domain.PredictionResult) error
}

// Options tunes a Pipeline.
type Options struct {
	// CacheSize bounds the number of calendar days whose analogues are kept.
	CacheSize int

	// SinkTimeout bounds each sink delivery. Zero means no extra deadline.
	SinkTimeout time.Duration
}

// MonthlyReport holds the daily predictions of one month and their summary.
type MonthlyReport struct {
	Year    int
	Month   time.Month
	Results []domain.PredictionResult
	Summary domain.MonthlySummary
}

type sink struct {
	name   string
	loader BatchLoader
}

// Pipeline orchestrates the analogue-feature-classify flow over cleaned history.
type Pipeline struct {
	history     []domain.WeatherRecord
	classifier  Classifier
	sinks       []sink
	cache       *lru.Cache[string, analogueSet]
	logger      *slog.Logger
	metrics     *observability.Metrics
	sinkTimeout time.Duration
}

// New creates a Pipeline over cleaned history.
func New(history []domain.WeatherRecord, classifier Classifier, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	return &Pipeline{
		history:     history,
		classifier:  classifier,
		cache:       newAnalogueCache(opts.CacheSize),
		logger:      logger,
		metrics:     metrics,
		sinkTimeout: opts.SinkTimeout,
	}
}

// AddSink registers a loader that receives every query's results.
func (p *Pipeline) AddSink(name string, l BatchLoader) {
	p.sinks = append(p.sinks, sink{name: name, loader: l})
}

// PredictDate predicts rain for a single date.
func (p *Pipeline) PredictDate(ctx context.Context, date time.Time) (domain.PredictionResult, error) {
	start := time.Now()
	defer p.observeDuration("date", start)

	runID := uuid.NewString()
	res, err := p.predict(date, runID)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	p.logger.Info("prediction complete",
		"run_id", runID,
		"date", res.Date.Format(time.DateOnly),
		"probability", res.Probability,
		"analogues", res.Analogues,
	)
	p.deliver(ctx, runID, []domain.PredictionResult{res})
	return res, nil
}

// PredictRange predicts every day from start to end inclusive. Dates that
// cannot be predicted are logged and left out of the result.
func (p *Pipeline) PredictRange(ctx context.Context, start, end time.Time) ([]domain.PredictionResult, error) {
	t0 := time.Now()
	defer p.observeDuration("range", t0)
	return p.predictRange(ctx, start, end)
}

// PredictMonth predicts every day of the given month and summarizes them.
func (p *Pipeline) PredictMonth(ctx context.Context, year, month int) (MonthlyReport, error) {
	if month < 1 || month > 12 {
		return MonthlyReport{}, fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}
	t0 := time.Now()
	defer p.observeDuration("month", t0)

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	results, err := p.predictRange(ctx, first, last)
	if err != nil {
		return MonthlyReport{}, err
	}
	return MonthlyReport{
		Year:    year,
		Month:   time.Month(month),
		Results: results,
		Summary: domain.Summarize(results),
	}, nil
}

func (p *Pipeline) predictRange(ctx context.Context, start, end time.Time) ([]domain.PredictionResult, error) {
	start, end = domain.Day(start), domain.Day(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange,
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	runID := uuid.NewString()
	results := make([]domain.PredictionResult, 0, int(end.Sub(start).Hours()/24)+1)
	failed := 0

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := p.predict(d, runID)
		if err != nil {
			failed++
			p.logger.Warn("prediction failed, skipping date",
				"run_id", runID,
				"date", d.Format(time.DateOnly),
				"error", err,
			)
			continue
		}
		results = append(results, res)
	}

	p.logger.Info("range prediction complete",
		"run_id", runID,
		"start", start.Format(time.DateOnly),
		"end", end.Format(time.DateOnly),
		"predicted", len(results),
		"failed", failed,
	)
	p.deliver(ctx, runID, results)
	return results, nil
}

// predict runs one date through analogue lookup, feature building and the
// classifier.
func (p *Pipeline) predict(date time.Time, runID string) (domain.PredictionResult, error) {
	set, err := p.analogues(date)
	if err != nil {
		p.recordFailure(err)
		return domain.PredictionResult{}, err
	}

	features := domain.BuildQueryFeatures(date, set.mean)
	c, err := p.classifier.Classify(features)
	if err != nil {
		p.recordFailure(err)
		return domain.PredictionResult{}, fmt.Errorf("predict %s: %w", date.Format(time.DateOnly), err)
	}

	res := domain.NewPredictionResult(date, c, set.count, runID)
	p.metrics.Predictions.WithLabelValues(metricLabel(res.Rain)).Inc()
	p.metrics.Probability.Observe(res.Probability)
	return res, nil
}

// analogues returns the averaged analogue days for date, consulting the cache
// first. Failed lookups are not cached.
func (p *Pipeline) analogues(date time.Time) (analogueSet, error) {
	key := analogueKey(date)
	if set, ok := p.cache.Get(key); ok {
		p.metrics.AnalogueCache.WithLabelValues("hit").Inc()
		return set, nil
	}
	p.metrics.AnalogueCache.WithLabelValues("miss").Inc()

	matches, err := domain.SelectAnalogues(p.history, date)
	if err != nil {
		return analogueSet{}, err
	}
	set := analogueSet{mean: domain.MeanRecord(matches), count: len(matches)}
	p.cache.Add(key, set)
	return set, nil
}

// deliver hands results to every sink. Sink failures are logged and counted
// but never fail the query.
func (p *Pipeline) deliver(ctx context.Context, runID string, results []domain.PredictionResult) {
	if len(results) == 0 {
		return
	}
	for _, s := range p.sinks {
		sinkCtx, cancel := ctx, context.CancelFunc(func() {})
		if p.sinkTimeout > 0 {
			sinkCtx, cancel = context.WithTimeout(ctx, p.sinkTimeout)
		}
		err := s.loader.LoadBatch(sinkCtx, results)
		cancel()
		if err != nil {
			p.metrics.SinkErrors.WithLabelValues(s.name).Inc()
			p.logger.Error("sink delivery failed",
				"sink", s.name,
				"run_id", runID,
				"results", len(results),
				"error", err,
			)
		}
	}
}

func (p *Pipeline) recordFailure(err error) {
	reason := "other"
	switch {
	case errors.Is(err, domain.ErrNoAnalogues):
		reason = "no_analogues"
	case errors.Is(err, domain.ErrFeatureMismatch):
		reason = "feature_mismatch"
	}
	p.metrics.PredictionFailures.WithLabelValues(reason).Inc()
}

func (p *Pipeline) observeDuration(query string, start time.Time) {
	p.metrics.QueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}

func metricLabel(rain bool) string {
	if rain {
		return "rain"
	}
	return "no_rain"
}
