package observability

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("shown", "rows", 3)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"rows":3`)
}

func TestMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.Predictions.WithLabelValues("rain").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Predictions.WithLabelValues("rain")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Predictions.WithLabelValues("rain")))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith(reg)
	m.Predictions.WithLabelValues("rain").Add(2)

	path := filepath.Join(t.TempDir(), "raincast.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `raincast_predictions_total{label="rain"} 2`)
}

func TestNewMetricsWith_RegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith(reg)
	m.Probability.Observe(0.3)
	m.SinkErrors.WithLabelValues("kafka").Inc()

	assert.Panics(t, func() { NewMetricsWith(reg) }, "second registration collides")

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "raincast_rain_probability")
	assert.Contains(t, names, "raincast_sink_errors_total")
}
