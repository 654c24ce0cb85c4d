package main

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/raincast/internal/adapter/csvsource"
	"github.com/couchcryptid/raincast/internal/adapter/sqlite"
	"github.com/couchcryptid/raincast/internal/model"
)

// fixture holds paths to a historical CSV and a saved model in a temp dir.
type fixture struct {
	dir      string
	dataPath string
	modelDir string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:      dir,
		dataPath: filepath.Join(dir, "observations.csv"),
		modelDir: filepath.Join(dir, "model"),
	}
	require.NoError(t, csvsource.WriteFile(f.dataPath, marchHistory()))
	require.NoError(t, model.Save(f.modelDir, pressureModel()))
	return f
}

// setEnv points the configuration at f and disables every optional sink.
func (f fixture) setEnv(t *testing.T) {
	t.Helper()
	t.Setenv("RAINCAST_DATA", f.dataPath)
	t.Setenv("RAINCAST_MODEL_DIR", f.modelDir)
	t.Setenv("RAINCAST_HISTORY_DB", "")
	t.Setenv("RAINCAST_METRICS_FILE", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("LOG_LEVEL", "error")
}

func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		dataFlag, modelDirFlag = "", ""
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})
}

func closerNames(a *app) []string {
	names := make([]string, 0, len(a.closers))
	for _, c := range a.closers {
		names = append(names, c.name)
	}
	return names
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	resetFlags(t)
	t.Setenv("RAINCAST_DATA", "/env/observations.csv")
	t.Setenv("RAINCAST_MODEL_DIR", "/env/model")

	cfg, _, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/env/observations.csv", cfg.DataPath)
	assert.Equal(t, "/env/model", cfg.ModelDir)

	dataFlag, modelDirFlag = "/flag/observations.csv", "/flag/model"
	cfg, _, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/flag/observations.csv", cfg.DataPath)
	assert.Equal(t, "/flag/model", cfg.ModelDir)
}

func TestLoadConfig_InvalidEnv(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, _, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestDateCommand_FlagsSelectInputs(t *testing.T) {
	resetFlags(t)
	f := newFixture(t)
	t.Setenv("RAINCAST_DATA", filepath.Join(f.dir, "absent.csv"))
	t.Setenv("RAINCAST_MODEL_DIR", filepath.Join(f.dir, "absent-model"))
	t.Setenv("RAINCAST_HISTORY_DB", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"date", "2026-03-10", "--data", f.dataPath, "--model-dir", f.modelDir})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Prediction for 2026-03-10:")
}

func TestNewApp_NoOptionalSinksByDefault(t *testing.T) {
	f := newFixture(t)
	f.setEnv(t)

	cfg, logger, err := loadConfig()
	require.NoError(t, err)
	a, err := newApp(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.Empty(t, closerNames(a))
}

func TestNewApp_KafkaSinkWiredWhenBrokersSet(t *testing.T) {
	f := newFixture(t)
	f.setEnv(t)
	t.Setenv("KAFKA_BROKERS", "localhost:9092")

	cfg, logger, err := loadConfig()
	require.NoError(t, err)
	a, err := newApp(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.Equal(t, []string{"kafka"}, closerNames(a))
}

func TestWithApp_RecordsHistoryAndWritesMetrics(t *testing.T) {
	f := newFixture(t)
	f.setEnv(t)
	dbPath := filepath.Join(f.dir, "history.db")
	promPath := filepath.Join(f.dir, "raincast.prom")
	t.Setenv("RAINCAST_HISTORY_DB", dbPath)
	t.Setenv("RAINCAST_METRICS_FILE", promPath)

	var out bytes.Buffer
	err := withApp(context.Background(), func(ctx context.Context, a *app) error {
		assert.Equal(t, []string{"history"}, closerNames(a))
		return printDate(ctx, &out, a.pipeline, time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC))
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Prediction for 2026-03-12:")

	store, err := sqlite.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()
	stored, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "2026-03-12", stored[0].Date.Format(time.DateOnly))

	prom, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "raincast_predictions_total")
	assert.Contains(t, string(prom), "raincast_analogue_cache_total")
}

func TestNewApp_MissingArtifacts(t *testing.T) {
	f := newFixture(t)
	f.setEnv(t)
	t.Setenv("RAINCAST_MODEL_DIR", filepath.Join(f.dir, "nowhere"))

	cfg, logger, err := loadConfig()
	require.NoError(t, err)
	_, err = newApp(cfg, logger)
	require.ErrorIs(t, err, model.ErrArtifactsMissing)
}

func TestLoadHistory_NoUsableRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	recs := marchHistory()[:3]
	for i := range recs {
		recs[i].TAvg = math.NaN()
	}
	require.NoError(t, csvsource.WriteFile(path, recs))

	_, err := loadHistory(path, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable rows")
}

func TestLoadHistory_LogsMissingColumnsInCSVOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gappy.csv")
	recs := marchHistory()[:5]
	recs[2].WDir = math.NaN()
	recs[2].Pres = math.NaN()
	recs[3].TAvg = math.NaN()
	require.NoError(t, csvsource.WriteFile(path, recs))

	var buf bytes.Buffer
	cleaned, err := loadHistory(path, slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, err)
	assert.Len(t, cleaned, 5)

	line := buf.String()
	assert.Contains(t, line, "total=3 tavg=1 pres=1 wdir=1")
	assert.Less(t, strings.Index(line, "missing values"), strings.Index(line, "historical data ready"))
}

func TestApp_CloseWithoutSinksOrMetrics(t *testing.T) {
	f := newFixture(t)
	f.setEnv(t)

	cfg, logger, err := loadConfig()
	require.NoError(t, err)
	a, err := newApp(cfg, logger)
	require.NoError(t, err)
	assert.NoError(t, a.Close())

	_, err = os.Stat(filepath.Join(f.dir, "raincast.prom"))
	assert.True(t, os.IsNotExist(err))
}
