package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Derived and calendar feature names.
const (
	FeatMonth      = "month"
	FeatDayOfYear  = "day_of_year"
	FeatDayOfWeek  = "day_of_week"
	FeatSeason     = "season"
	FeatTAvg3dMean = "tavg_3d_mean"
	FeatPrcp3dSum  = "prcp_3d_sum"
	FeatPresDiff   = "pres_diff"
	FeatWDirSin    = "wdir_sin"
	FeatWDirCos    = "wdir_cos"
)

// ErrFeatureMismatch is returned when a vector cannot supply the feature set
// a classifier was trained on.
var ErrFeatureMismatch = errors.New("feature mismatch")

// Feature is one named model input.
type Feature struct {
	Name  string
	Value float64
}

// FeatureVector is an ordered list of named features.
type FeatureVector []Feature

// Get returns the value of the named feature.
func (v FeatureVector) Get(name string) (float64, bool) {
	for _, f := range v {
		if f.Name == name {
			return f.Value, true
		}
	}
	return 0, false
}

// Names returns the feature names in order.
func (v FeatureVector) Names() []string {
	names := make([]string, len(v))
	for i, f := range v {
		names[i] = f.Name
	}
	return names
}

// Select returns the values of names in exactly that order. Every name must
// be present and finite.
func (v FeatureVector) Select(names []string) ([]float64, error) {
	index := make(map[string]float64, len(v))
	for _, f := range v {
		index[f.Name] = f.Value
	}

	out := make([]float64, len(names))
	var missing []string
	for i, name := range names {
		val, ok := index[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("%w: feature %s is not a finite number", ErrFeatureMismatch, name)
		}
		out[i] = val
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrFeatureMismatch, strings.Join(missing, ", "))
	}
	return out, nil
}

// CalendarFeatures returns month, day of year, day of week (Monday = 0) and
// meteorological season (DJF = 1, MAM = 2, JJA = 3, SON = 4) for date.
func CalendarFeatures(date time.Time) FeatureVector {
	month := int(date.Month())
	return FeatureVector{
		{Name: FeatMonth, Value: float64(month)},
		{Name: FeatDayOfYear, Value: float64(date.YearDay())},
		{Name: FeatDayOfWeek, Value: float64((int(date.Weekday()) + 6) % 7)},
		{Name: FeatSeason, Value: float64((month%12 + 3) / 3)},
	}
}

// WindComponents decomposes a wind direction in degrees into sine and cosine.
// An unknown direction yields (0, 0).
func WindComponents(wdir float64) (sin, cos float64) {
	if isMissing(wdir) {
		return 0, 0
	}
	rad := wdir * math.Pi / 180
	return math.Sin(rad), math.Cos(rad)
}

// BuildQueryFeatures assembles the vector for a query date from the mean of
// its historical analogues. A single averaged day has no neighbours, so the
// rolling features collapse to the day's own values and the pressure delta
// is zero.
func BuildQueryFeatures(date time.Time, analogue WeatherRecord) FeatureVector {
	v := observationFeatures(analogue)
	v = append(v, CalendarFeatures(date)...)

	sin, cos := WindComponents(analogue.WDir)
	return append(v,
		Feature{Name: FeatTAvg3dMean, Value: analogue.TAvg},
		Feature{Name: FeatPrcp3dSum, Value: analogue.Prcp},
		Feature{Name: FeatPresDiff, Value: 0},
		Feature{Name: FeatWDirSin, Value: sin},
		Feature{Name: FeatWDirCos, Value: cos},
	)
}

// SeriesRow pairs a record with the features derived from its position in
// a cleaned series.
type SeriesRow struct {
	Record   WeatherRecord
	Features FeatureVector

	// Complete is false for the leading rows that lack a full 3-day window.
	Complete bool
}

// BuildSeriesFeatures derives rolling features over consecutive rows of a
// cleaned, date-sorted series: a 3-row mean of tavg, a 3-row sum of prcp and
// the pressure change from the previous row.
func BuildSeriesFeatures(records []WeatherRecord) []SeriesRow {
	rows := make([]SeriesRow, len(records))
	for i, rec := range records {
		v := observationFeatures(rec)
		v = append(v, CalendarFeatures(rec.Date)...)

		tavgMean, prcpSum := math.NaN(), math.NaN()
		if i >= 2 {
			tavgMean = (records[i-2].TAvg + records[i-1].TAvg + rec.TAvg) / 3
			prcpSum = records[i-2].Prcp + records[i-1].Prcp + rec.Prcp
		}
		presDiff := math.NaN()
		if i >= 1 {
			presDiff = rec.Pres - records[i-1].Pres
		}

		sin, cos := WindComponents(rec.WDir)
		v = append(v,
			Feature{Name: FeatTAvg3dMean, Value: tavgMean},
			Feature{Name: FeatPrcp3dSum, Value: prcpSum},
			Feature{Name: FeatPresDiff, Value: presDiff},
			Feature{Name: FeatWDirSin, Value: sin},
			Feature{Name: FeatWDirCos, Value: cos},
		)

		rows[i] = SeriesRow{Record: rec, Features: v, Complete: i >= 2}
	}
	return rows
}

// derivedFeatures are computed by this package. Input columns of the same name
// are ignored so every name appears once in a vector.
var derivedFeatures = map[string]bool{
	FeatMonth: true, FeatDayOfYear: true, FeatDayOfWeek: true, FeatSeason: true,
	FeatTAvg3dMean: true, FeatPrcp3dSum: true, FeatPresDiff: true,
	FeatWDirSin: true, FeatWDirCos: true,
}

// observationFeatures lists the raw observation columns followed by any extra
// columns in name order.
func observationFeatures(rec WeatherRecord) FeatureVector {
	v := make(FeatureVector, 0, len(ObservationColumns)+len(rec.Extra)+9)
	for _, col := range ObservationColumns {
		val, _ := rec.Value(col)
		v = append(v, Feature{Name: col, Value: val})
	}

	extras := make([]string, 0, len(rec.Extra))
	for name := range rec.Extra {
		if derivedFeatures[name] {
			continue
		}
		extras = append(extras, name)
	}
	sort.Strings(extras)
	for _, name := range extras {
		v = append(v, Feature{Name: name, Value: rec.Extra[name]})
	}
	return v
}
