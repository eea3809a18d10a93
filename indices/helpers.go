// Package indices implements the climate indicators: threshold counts,
// degree days, spell lengths, temperature statistics, precipitation totals
// and the standard inter-variable conversions. Inputs are daily series; every
// indicator validates units before computing.
package indices

import (
	"fmt"
	"math"

	"github.com/GlobalManagement/xclim/cal"
	"github.com/GlobalManagement/xclim/series"
	"github.com/GlobalManagement/xclim/units"
)

type cmp func(v, t float64) bool

func lt(v, t float64) bool { return v < t }
func gt(v, t float64) bool { return v > t }
func le(v, t float64) bool { return v <= t }
func ge(v, t float64) bool { return v >= t }

// threshIn converts a threshold string into the data's unit.
func threshIn(thresh string, da *series.DataArray) (float64, error) {
	tv, tu, err := units.ParseThreshold(thresh)
	if err != nil {
		return math.NaN(), err
	}
	return units.Convert(tv, tu, da.Units)
}

// countDays counts, per period, the valid days satisfying c against thresh.
// An all-NaN period yields NaN.
func countDays(da *series.DataArray, thresh string, c cmp, freq string) (*series.DataArray, error) {
	f, err := cal.ParseFreq(freq)
	if err != nil {
		return nil, err
	}
	tv, err := threshIn(thresh, da)
	if err != nil {
		return nil, err
	}
	out := da.Resample(f, func(x []float64) float64 {
		n, any := 0, false
		for _, v := range x {
			if math.IsNaN(v) {
				continue
			}
			any = true
			if c(v, tv) {
				n++
			}
		}
		if !any {
			return math.NaN()
		}
		return float64(n)
	})
	out.Units = "d"
	return out, nil
}

// degreeDays accumulates, per period, the positive excursions of the daily
// values from thresh. above=true sums v-t, otherwise t-v. Output in K d.
func degreeDays(da *series.DataArray, thresh string, above bool, freq string) (*series.DataArray, error) {
	if err := units.CheckCompatible(da.Units, "K"); err != nil {
		return nil, err
	}
	f, err := cal.ParseFreq(freq)
	if err != nil {
		return nil, err
	}
	tv, err := threshIn(thresh, da)
	if err != nil {
		return nil, err
	}
	out := da.Resample(f, func(x []float64) float64 {
		s, any := 0., false
		for _, v := range x {
			if math.IsNaN(v) {
				continue
			}
			any = true
			d := v - tv
			if !above {
				d = -d
			}
			if d > 0 {
				s += d
			}
		}
		if !any {
			return math.NaN()
		}
		return s
	})
	out.Units = "K d"
	return out, nil
}

// spell reduces each period with a run-length statistic of the exceedance
// mask. NaN days break runs.
func spell(da *series.DataArray, thresh string, c cmp, freq string, stat func([]bool) int) (*series.DataArray, error) {
	f, err := cal.ParseFreq(freq)
	if err != nil {
		return nil, err
	}
	tv, err := threshIn(thresh, da)
	if err != nil {
		return nil, err
	}
	out := da.Resample(f, func(x []float64) float64 {
		b := make([]bool, len(x))
		any := false
		for j, v := range x {
			if math.IsNaN(v) {
				continue
			}
			any = true
			b[j] = c(v, tv)
		}
		if !any {
			return math.NaN()
		}
		return float64(stat(b))
	})
	out.Units = "d"
	return out, nil
}

// aggregate reduces each period with a plain NaN-aware kernel, keeping the
// input units.
func aggregate(da *series.DataArray, freq string, stat func([]float64) float64) (*series.DataArray, error) {
	f, err := cal.ParseFreq(freq)
	if err != nil {
		return nil, err
	}
	return da.Resample(f, stat), nil
}

// checkTemp validates a temperature input.
func checkTemp(da *series.DataArray) error {
	if err := units.CheckCompatible(da.Units, "K"); err != nil {
		return fmt.Errorf("indices: %s: %v", da.Name, err)
	}
	return nil
}

// checkPr validates a precipitation-flux input.
func checkPr(da *series.DataArray) error {
	if err := units.CheckCompatible(da.Units, "kg m-2 s-1"); err != nil {
		return fmt.Errorf("indices: %s: %v", da.Name, err)
	}
	return nil
}

// prToMmd returns the factor taking da's values to mm/d.
func prToMmd(da *series.DataArray) (float64, error) {
	return units.Convert(1, da.Units, "mm/d")
}
