package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/couchcryptid/raincast/internal/adapter/csvsource"
	kafkaadapter "github.com/couchcryptid/raincast/internal/adapter/kafka"
	"github.com/couchcryptid/raincast/internal/adapter/sqlite"
	"github.com/couchcryptid/raincast/internal/config"
	"github.com/couchcryptid/raincast/internal/domain"
	"github.com/couchcryptid/raincast/internal/model"
	"github.com/couchcryptid/raincast/internal/observability"
	"github.com/couchcryptid/raincast/internal/pipeline"
)

// app bundles everything a prediction command needs.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	pipeline *pipeline.Pipeline
	closers  []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

// loadConfig reads the environment and applies the persistent flag overrides.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if dataFlag != "" {
		cfg.DataPath = dataFlag
	}
	if modelDirFlag != "" {
		cfg.ModelDir = modelDirFlag
	}
	return cfg, observability.NewLogger(cfg), nil
}

// newApp loads the model and history and wires the enabled sinks.
func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	m, err := model.Load(cfg.ModelDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("model loaded", "dir", cfg.ModelDir, "features", len(m.Features))

	history, err := loadHistory(cfg.DataPath, logger)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a := &app{cfg: cfg, logger: logger, registry: reg}
	a.pipeline = pipeline.New(history, m, logger, observability.NewMetricsWith(reg), pipeline.Options{
		CacheSize:   cfg.CacheSize,
		SinkTimeout: cfg.ShutdownTimeout,
	})

	if cfg.HistoryEnabled() {
		store, err := sqlite.Open(cfg.HistoryDB)
		if err != nil {
			return nil, err
		}
		a.pipeline.AddSink("history", store)
		a.closers = append(a.closers, namedCloser{"history", store.Close})
		logger.Info("prediction history enabled", "path", cfg.HistoryDB)
	}
	if cfg.PublishEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		a.pipeline.AddSink("kafka", writer)
		a.closers = append(a.closers, namedCloser{"kafka", writer.Close})
		logger.Info("prediction publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	return a, nil
}

// loadHistory reads and cleans the historical file, logging what was repaired.
func loadHistory(path string, logger *slog.Logger) ([]domain.WeatherRecord, error) {
	records, err := csvsource.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load historical data: %w", err)
	}

	cleaned, rep := domain.Clean(records)
	if n := rep.TotalNulls(); n > 0 {
		args := []any{"total", n}
		for _, col := range domain.ObservationColumns {
			if c := rep.NullCounts[col]; c > 0 {
				args = append(args, col, c)
			}
		}
		logger.Warn("historical data contains missing values", args...)
	}
	if rep.RemainingCritical > 0 {
		logger.Warn("dropping rows still missing critical values",
			"remaining", rep.RemainingCritical,
			"dropped", rep.Dropped,
		)
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("load historical data: no usable rows in %s", path)
	}
	logger.Info("historical data ready", "path", path, "rows", rep.Kept)
	return cleaned, nil
}

// Close flushes the sinks and writes the metrics textfile when configured.
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.close(); err != nil {
			a.logger.Error("sink close error", "sink", c.name, "error", err)
			errs = append(errs, err)
		}
	}
	if a.cfg.MetricsFile != "" {
		if err := observability.WriteTextfile(a.cfg.MetricsFile, a.registry); err != nil {
			a.logger.Error("metrics export failed", "path", a.cfg.MetricsFile, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// withApp builds the app for one command and always closes it.
func withApp(ctx context.Context, fn func(context.Context, *app) error) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	runErr := fn(ctx, a)
	if err := a.Close(); err != nil && runErr == nil {
		return err
	}
	return runErr
}
