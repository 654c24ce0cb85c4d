package domain

import (
	"sort"
)

// CleanReport summarizes what Clean repaired and discarded.
type CleanReport struct {
	// NullCounts holds the number of missing values per observation column
	// before any repair. Columns without gaps are omitted.
	NullCounts map[string]int

	// RemainingCritical counts missing critical values left after repair.
	RemainingCritical int

	Dropped int
	Kept    int
}

// TotalNulls returns the sum of NullCounts.
func (r CleanReport) TotalNulls() int {
	total := 0
	for _, n := range r.NullCounts {
		total += n
	}
	return total
}

// Clean sorts records by date, repairs gaps in the observation columns, and
// drops rows that are still missing a critical column. The input slice is not
// modified.
//
// Each gappy column is linearly interpolated by position between its nearest
// known neighbours, then back-filled (leading gap) and forward-filled
// (trailing gap). A column with no known values stays missing.
func Clean(records []WeatherRecord) ([]WeatherRecord, CleanReport) {
	out := make([]WeatherRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	report := CleanReport{NullCounts: make(map[string]int)}

	for _, col := range ObservationColumns {
		series := make([]float64, len(out))
		nulls := 0
		for i := range out {
			v, _ := out[i].Value(col)
			series[i] = v
			if isMissing(v) {
				nulls++
			}
		}
		if nulls == 0 {
			continue
		}
		report.NullCounts[col] = nulls

		fillGaps(series)
		for i := range out {
			out[i].SetValue(col, series[i])
		}
	}

	kept := out[:0]
	for _, rec := range out {
		missing := 0
		for _, col := range CriticalColumns {
			if v, _ := rec.Value(col); isMissing(v) {
				missing++
			}
		}
		if missing > 0 {
			report.RemainingCritical += missing
			report.Dropped++
			continue
		}
		kept = append(kept, rec)
	}
	report.Kept = len(kept)

	return kept, report
}

// fillGaps repairs series in place: interior gaps are interpolated, edges are
// filled from the nearest known value.
func fillGaps(series []float64) {
	first, last := -1, -1
	for i, v := range series {
		if isMissing(v) {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return
	}

	for i := 0; i < first; i++ {
		series[i] = series[first]
	}
	for i := last + 1; i < len(series); i++ {
		series[i] = series[last]
	}

	prev := first
	for i := first + 1; i <= last; i++ {
		if isMissing(series[i]) {
			continue
		}
		if gap := i - prev; gap > 1 {
			step := (series[i] - series[prev]) / float64(gap)
			for k := prev + 1; k < i; k++ {
				series[k] = series[prev] + step*float64(k-prev)
			}
		}
		prev = i
	}
}
