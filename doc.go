// Package xclim computes climate indicators from gridded daily time series
// and provides statistical bias adjustment of climate model output.
//
// # Packages
//
//   - cal: calendars (standard, noleap, all_leap, 360_day), time axes and
//     resampling frequencies (YS, AS-JUL, QS-DEC, MS)
//   - units: unit conversion and threshold parsing for the CF units used here
//   - series: the labeled [location][time] data array and its chunked
//     parallel execution model
//   - rl: run-length operations on boolean series
//   - indices: climate indicators (frost days, degree days, spells,
//     precipitation totals, percentile-based indices) and variable conversions
//   - sdba: train/adjust bias correction (EQM, DQM, QDM, scaling), grouped
//     windowed statistics, detrending (mean, polynomial, LOESS) and the
//     N-dimensional pdf transform
//   - ensembles: statistics across realizations
//   - ncio: NetCDF input, CSV/binary/gob output
//
// # Quick start
//
// Compute annual frost days:
//
//	tasmin, _ := ncio.ReadVar("tasmin.nc", "tasmin")
//	fd, _ := indices.FrostDays(tasmin, "YS")
//
// Train and apply quantile delta mapping, grouped by month:
//
//	g, _ := sdba.NewGrouper("time.month", 1)
//	qdm := sdba.NewQDM(50, sdba.Additive, g)
//	qdm.Train(ref, hist)
//	scen, _, _ := qdm.Adjust(sim)
package xclim
