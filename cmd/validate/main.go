// Command validate checks that a historical observations CSV and a model
// artifact set are fit for raincast: the data parses and cleans, every month
// has analogues, the model's features are ones the predictor can build, and a
// sample of predictions stays within bounds.
//
// Usage:
//
//	go run ./cmd/validate -data datos_procesados.csv -model-dir model
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/raincast/internal/adapter/csvsource"
	"github.com/couchcryptid/raincast/internal/domain"
	"github.com/couchcryptid/raincast/internal/model"
	"github.com/couchcryptid/raincast/internal/observability"
	"github.com/couchcryptid/raincast/internal/pipeline"
)

// sampleYear is the year smoke-test dates are placed in.
const sampleYear = 2030

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataPath := flag.String("data", "datos_procesados.csv", "historical observations CSV")
	modelDir := flag.String("model-dir", "model", "directory with the model artifacts")
	flag.Parse()

	os.Exit(run(*dataPath, *modelDir))
}

func run(dataPath, modelDir string) int {
	// Fixed clock so repeated runs stamp identical predictions.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(sampleYear, time.January, 1, 0, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	fmt.Println("=== Raincast Data Validation ===")
	fmt.Println()

	records, err := csvsource.LoadFile(dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load data: %v\n", err)
		return 1
	}
	m, err := model.Load(modelDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load model: %v\n", err)
		return 1
	}
	cleaned, rep := domain.Clean(records)

	phases := []*phase{
		validateHistory(records, cleaned, rep),
		validateFeatures(m),
		validateSmoke(cleaned, m),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d read, %d kept, %d dropped; %d missing values repaired\n",
		len(records), rep.Kept, rep.Dropped, rep.TotalNulls())
	fmt.Printf("Model: %d features\n", len(m.Features))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phases ──

func validateHistory(raw, cleaned []domain.WeatherRecord, rep domain.CleanReport) *phase {
	p := &phase{name: "Historical data integrity"}

	if len(raw) == 0 {
		p.errorf("file has no rows")
		return p
	}
	if len(cleaned) == 0 {
		p.errorf("no rows survive cleaning")
		return p
	}
	if rep.Kept+rep.Dropped != len(raw) {
		p.errorf("clean report accounts for %d rows, read %d", rep.Kept+rep.Dropped, len(raw))
	}

	seen := make(map[time.Time]bool, len(cleaned))
	for i, r := range cleaned {
		if seen[r.Date] {
			p.errorf("duplicate date %s", r.Date.Format(time.DateOnly))
		}
		seen[r.Date] = true
		if i > 0 && r.Date.Before(cleaned[i-1].Date) {
			p.errorf("row %d (%s) out of order", i, r.Date.Format(time.DateOnly))
		}
		for _, col := range domain.CriticalColumns {
			if v, _ := r.Value(col); math.IsNaN(v) {
				p.errorf("%s still missing %s after cleaning", r.Date.Format(time.DateOnly), col)
			}
		}
		if r.Prcp < 0 {
			p.errorf("%s has negative precipitation %g", r.Date.Format(time.DateOnly), r.Prcp)
		}
	}

	months := make(map[time.Month]bool, 12)
	for _, r := range cleaned {
		months[r.Date.Month()] = true
	}
	for mo := time.January; mo <= time.December; mo++ {
		if !months[mo] {
			p.errorf("no observations for %s: dates in that month cannot be predicted", mo)
		}
	}
	return p
}

func validateFeatures(m *model.Model) *phase {
	p := &phase{name: "Model feature coverage"}

	sample := domain.NewWeatherRecord(time.Date(sampleYear, time.June, 15, 0, 0, 0, 0, time.UTC))
	for _, col := range domain.ObservationColumns {
		sample.SetValue(col, 1)
	}
	available := make(map[string]bool)
	for _, name := range domain.BuildQueryFeatures(sample.Date, sample).Names() {
		available[name] = true
	}
	for _, f := range m.Features {
		if !available[f] {
			p.errorf("model feature %q is not produced by the predictor", f)
		}
	}
	for i, s := range m.Scaler.Scale {
		if s <= 0 {
			p.errorf("feature %q has non-positive scale %g", m.Features[i], s)
		}
	}
	return p
}

func validateSmoke(history []domain.WeatherRecord, m *model.Model) *phase {
	p := &phase{name: "Sample predictions"}
	if len(history) == 0 {
		p.errorf("no history to predict from")
		return p
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pl := pipeline.New(history, m, logger, observability.NewMetricsForTesting(), pipeline.Options{CacheSize: 12})

	for mo := time.January; mo <= time.December; mo++ {
		date := time.Date(sampleYear, mo, 15, 0, 0, 0, 0, time.UTC)
		res, err := pl.PredictDate(context.Background(), date)
		if err != nil {
			p.errorf("%s: %v", date.Format(time.DateOnly), err)
			continue
		}
		if res.Probability < 0 || res.Probability > 1 || math.IsNaN(res.Probability) {
			p.errorf("%s: probability %g out of range", date.Format(time.DateOnly), res.Probability)
		}
		if want := domain.Interpret(res.Percent()); res.Bucket != want {
			p.errorf("%s: bucket %q, want %q", date.Format(time.DateOnly), res.Bucket, want)
		}
	}
	return p
}
