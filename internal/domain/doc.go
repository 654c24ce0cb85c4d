// Package domain models daily weather observations and the rain-prediction
// features derived from them.
//
// # Data Source
//
// Historical observations follow the Meteostat daily layout, one row per day:
//
//	date,tavg,tmin,tmax,prcp,wspd,pres,wdir
//	2023-01-05,11.2,7.9,15.0,0.3,12.6,1016.4,240
//
// Units:
//
//	tavg, tmin, tmax  air temperature, °C
//	prcp              total precipitation, mm
//	wspd              mean wind speed, km/h
//	pres              mean sea-level pressure, hPa
//	wdir              prevailing wind direction, degrees (0 = N, 90 = E)
//
// Empty cells are missing values and are held as NaN. Further numeric columns
// (snow, wpgt, tsun) are kept in [WeatherRecord.Extra].
//
// # Cleaning
//
// [Clean] repairs each observation column by linear interpolation between the
// nearest known rows, then fills the edges from the nearest known value. Rows
// still missing tavg, prcp or pres afterwards are dropped.
//
// # Analogues
//
// The model is not a time-series forecaster. To predict a date it averages
// historical "analogue" days: the same month with the day-of-month within one
// of the query's, from any year. When that window is empty the whole month
// is used. See [SelectAnalogues] and [MeanRecord].
//
// # Features
//
// Calendar features use Monday = 0 for day_of_week and a meteorological
// season index (month % 12 + 3) / 3:
//
//	Dec–Feb 1 | Mar–May 2 | Jun–Aug 3 | Sep–Nov 4
//
// Wind direction enters the model as wdir_sin and wdir_cos so that 359° and
// 1° are neighbours. Over a series the rolling features are a 3-row mean of
// tavg, a 3-row sum of prcp and the row-to-row pressure change; for a single
// averaged analogue day they collapse to tavg, prcp and 0.
//
// # Interpretation
//
// Probabilities are reported in percent and bucketed:
//
//	<20 very low | <40 low | <60 moderate | <80 high | ≥80 very high
package domain
