package report

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/raincast/internal/domain"
	"github.com/couchcryptid/raincast/internal/pipeline"
)

func result(day int, rain bool, p float64) domain.PredictionResult {
	return domain.PredictionResult{
		Date:        time.Date(2026, time.April, day, 0, 0, 0, 0, time.UTC),
		Rain:        rain,
		Probability: p,
		Bucket:      domain.Interpret(p * 100),
		PredictedAt: time.Date(2026, time.March, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestWriteSingle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSingle(&buf, result(5, true, 0.7512)))

	want := "\nPrediction for 2026-04-05:\n" +
		"Result: Rain\n" +
		"Rain probability: 75.12%\n" +
		"Interpretation: High\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteSingle_MissingProbability(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSingle(&buf, result(5, false, math.NaN())))

	assert.Contains(t, buf.String(), "Result: No rain\n")
	assert.Contains(t, buf.String(), "Rain probability: not available\n")
	assert.Contains(t, buf.String(), "Interpretation: Undetermined\n")
}

func TestWriteRange_TableLayout(t *testing.T) {
	var buf bytes.Buffer
	results := []domain.PredictionResult{result(14, true, 0.75), result(15, false, 0.055)}
	require.NoError(t, WriteRange(&buf, results[0].Date, results[1].Date, results))

	lines := strings.Split(strings.TrimPrefix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 7) // title, rule, header, rule, 2 rows, trailing ""

	assert.Equal(t, "Rain forecast from 2026-04-14 to 2026-04-15:", lines[0])
	assert.Equal(t, strings.Repeat("-", 80), lines[1])
	assert.Equal(t, "Date         | Prediction | Probability     | Interpretation ", lines[2])
	assert.Equal(t, "2026-04-14   | Rain       | 75.00%          | High           ", lines[4])
	assert.Equal(t, "2026-04-15   | No rain    | 5.50%           | Very low       ", lines[5])
}

func TestWriteMonthly_Summary(t *testing.T) {
	results := []domain.PredictionResult{
		result(1, true, 0.8), result(2, false, 0.2), result(3, false, 0.05), result(4, true, 0.55),
	}
	m := pipeline.MonthlyReport{
		Year: 2026, Month: time.April, Results: results, Summary: domain.Summarize(results),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMonthly(&buf, m))
	out := buf.String()

	assert.Contains(t, out, "Rain analysis for April 2026:\n")
	assert.Contains(t, out, "Summary for April 2026:\n")
	assert.Contains(t, out, "Days with rain forecast: 2 of 4 (50.0%)\n")
	assert.Contains(t, out, "Mean rain probability: 40.00%\n")
	assert.Contains(t, out, "Maximum probability: 80.00%\n")
	assert.Contains(t, out, "Minimum probability: 5.00%\n")
}

func TestWriteMonthly_EmptyMonthHasNoSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMonthly(&buf, pipeline.MonthlyReport{Year: 2026, Month: time.February}))

	assert.Contains(t, buf.String(), "Rain analysis for February 2026:")
	assert.NotContains(t, buf.String(), "Summary")
}

func TestWriteHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, nil))
	assert.Equal(t, "No predictions recorded.\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteHistory(&buf, []domain.PredictionResult{result(9, true, 0.9)}))
	assert.Contains(t, buf.String(), "2026-04-09   | Rain       | 90.00%          | Very high       | 2026-03-30 12:00:00")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestWrite_PropagatesWriterError(t *testing.T) {
	err := WriteSingle(failingWriter{}, result(1, true, 0.5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed pipe")
}
