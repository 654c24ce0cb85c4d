package domain

import (
	"math"
	"time"
)

// Observation column names as they appear in the processed CSV.
const (
	ColDate = "date"
	ColTAvg = "tavg"
	ColTMin = "tmin"
	ColTMax = "tmax"
	ColPrcp = "prcp"
	ColWSpd = "wspd"
	ColPres = "pres"
	ColWDir = "wdir"
)

// ObservationColumns are the series the cleaner repairs, in CSV order.
var ObservationColumns = []string{ColTAvg, ColTMin, ColTMax, ColPrcp, ColWSpd, ColPres, ColWDir}

// CriticalColumns must be present after cleaning; rows still missing any of
// them are dropped.
var CriticalColumns = []string{ColTAvg, ColPrcp, ColPres}

// WeatherRecord is one raw daily observation. Missing values are NaN.
type WeatherRecord struct {
	Date time.Time
	TAvg float64 // °C
	TMin float64 // °C
	TMax float64 // °C
	Prcp float64 // mm
	WSpd float64 // km/h
	Pres float64 // hPa, sea level
	WDir float64 // degrees

	// Extra holds any further numeric columns found in the source file.
	Extra map[string]float64
}

// NewWeatherRecord returns a record for date with every observation missing.
func NewWeatherRecord(date time.Time) WeatherRecord {
	nan := math.NaN()
	return WeatherRecord{
		Date: Day(date),
		TAvg: nan, TMin: nan, TMax: nan,
		Prcp: nan, WSpd: nan, Pres: nan, WDir: nan,
	}
}

// Value returns the named column. The boolean is false for unknown columns.
func (r WeatherRecord) Value(col string) (float64, bool) {
	if p := r.field(col); p != nil {
		return *p, true
	}
	v, ok := r.Extra[col]
	return v, ok
}

// SetValue assigns the named column, storing unknown names in Extra.
func (r *WeatherRecord) SetValue(col string, v float64) {
	if p := r.field(col); p != nil {
		*p = v
		return
	}
	if r.Extra == nil {
		r.Extra = make(map[string]float64)
	}
	r.Extra[col] = v
}

func (r *WeatherRecord) field(col string) *float64 {
	switch col {
	case ColTAvg:
		return &r.TAvg
	case ColTMin:
		return &r.TMin
	case ColTMax:
		return &r.TMax
	case ColPrcp:
		return &r.Prcp
	case ColWSpd:
		return &r.WSpd
	case ColPres:
		return &r.Pres
	case ColWDir:
		return &r.WDir
	default:
		return nil
	}
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isMissing(v float64) bool {
	return math.IsNaN(v)
}
