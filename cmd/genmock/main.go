// Command genmock writes a deterministic synthetic daily-observation CSV in
// the layout raincast reads. Temperatures follow a seasonal cycle, pressure
// wanders around 1013 hPa, and rain falls mostly on low-pressure days, so a
// model trained on the output has a real signal to learn.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/observations.csv -start 2018-01-01 -years 5 -seed 42
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/couchcryptid/raincast/internal/adapter/csvsource"
	"github.com/couchcryptid/raincast/internal/domain"
)

// missingRate is the share of individual observations blanked out so the
// cleaner has gaps to repair.
const missingRate = 0.02

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output CSV path")
	startStr := flag.String("start", "2018-01-01", "first day (YYYY-MM-DD)")
	years := flag.Int("years", 5, "number of years to generate")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *years <= 0 {
		return fmt.Errorf("-years must be positive, got %d", *years)
	}
	start, err := time.Parse(time.DateOnly, *startStr)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}

	records := generate(start, start.AddDate(*years, 0, 0), *seed)
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	if err := csvsource.WriteFile(*out, records); err != nil {
		return err
	}
	log.Printf("wrote %d days to %s", len(records), *out)

	printStats(records)
	return nil
}

// generate produces one record per day in [start, end).
func generate(start, end time.Time, seed uint64) []domain.WeatherRecord {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	rng := rand.New(src)
	noise := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	var records []domain.WeatherRecord //nolint:prealloc // size depends on the calendar
	pres := 1013.0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		season := math.Sin(2 * math.Pi * float64(d.YearDay()-105) / 365.25)

		// Pressure is an AR(1) walk pulled back toward its mean.
		pres = 1013 + 0.8*(pres-1013) + 4*noise.Rand()

		r := domain.NewWeatherRecord(d)
		r.TAvg = round1(15 + 9*season + 2*noise.Rand())
		r.TMin = round1(r.TAvg - 4 - math.Abs(noise.Rand()))
		r.TMax = round1(r.TAvg + 4 + math.Abs(noise.Rand()))
		r.Pres = round1(pres)
		r.WSpd = round1(math.Max(0, 12+3*(1013-pres)/4+3*noise.Rand()))
		r.WDir = float64(rng.IntN(360))

		// Low pressure and the cool season both raise the odds of rain.
		odds := 1 / (1 + math.Exp(0.35*(pres-1008)+0.8*season))
		r.Prcp = 0
		if rng.Float64() < odds {
			r.Prcp = round1(0.2 + rng.ExpFloat64()*5)
		}

		for _, col := range domain.ObservationColumns {
			if rng.Float64() < missingRate {
				r.SetValue(col, math.NaN())
			}
		}
		records = append(records, r)
	}
	return records
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func printStats(records []domain.WeatherRecord) {
	var rainy, missing int
	for _, r := range records {
		if r.Prcp > 0 {
			rainy++
		}
		for _, col := range domain.ObservationColumns {
			if v, _ := r.Value(col); math.IsNaN(v) {
				missing++
			}
		}
	}
	fmt.Println("\n=== Stats ===")
	fmt.Printf("Days: %d\n", len(records))
	fmt.Printf("Rain days: %d (%.1f%%)\n", rainy, float64(rainy)/float64(len(records))*100)
	fmt.Printf("Missing values: %d\n", missing)
}
