package indices

import (
	"math"

	"github.com/GlobalManagement/xclim/cal"
	"github.com/GlobalManagement/xclim/rl"
	"github.com/GlobalManagement/xclim/series"
)

// Wetdays counts days with precipitation at or above thresh (default
// "1 mm/d") per period.
func Wetdays(pr *series.DataArray, thresh, freq string) (*series.DataArray, error) {
	if err := checkPr(pr); err != nil {
		return nil, err
	}
	out, err := countDays(pr, thresh, ge, freq)
	if err != nil {
		return nil, err
	}
	out.Name = "wetdays"
	return out, nil
}

// WetdaysProp returns the fraction of days at or above thresh per period.
func WetdaysProp(pr *series.DataArray, thresh, freq string) (*series.DataArray, error) {
	if err := checkPr(pr); err != nil {
		return nil, err
	}
	f, err := cal.ParseFreq(freq)
	if err != nil {
		return nil, err
	}
	tv, err := threshIn(thresh, pr)
	if err != nil {
		return nil, err
	}
	out := pr.Resample(f, func(x []float64) float64 {
		n, wet := 0, 0
		for _, v := range x {
			if math.IsNaN(v) {
				continue
			}
			n++
			if v >= tv {
				wet++
			}
		}
		if n == 0 {
			return math.NaN()
		}
		return float64(wet) / float64(n)
	})
	out.Name, out.Units = "wetdays_prop", "1"
	return out, nil
}

// DryDays counts days with precipitation below thresh per period.
func DryDays(pr *series.DataArray, thresh, freq string) (*series.DataArray, error) {
	if err := checkPr(pr); err != nil {
		return nil, err
	}
	out, err := countDays(pr, thresh, lt, freq)
	if err != nil {
		return nil, err
	}
	out.Name = "dry_days"
	return out, nil
}

// MaximumConsecutiveWetDays returns the longest wet spell per period.
func MaximumConsecutiveWetDays(pr *series.DataArray, thresh, freq string) (*series.DataArray, error) {
	if err := checkPr(pr); err != nil {
		return nil, err
	}
	out, err := spell(pr, thresh, ge, freq, rl.LongestRun)
	if err != nil {
		return nil, err
	}
	out.Name = "cwd"
	return out, nil
}

// MaximumConsecutiveDryDays returns the longest dry spell per period.
func MaximumConsecutiveDryDays(pr *series.DataArray, thresh, freq string) (*series.DataArray, error) {
	if err := checkPr(pr); err != nil {
		return nil, err
	}
	out, err := spell(pr, thresh, lt, freq, rl.LongestRun)
	if err != nil {
		return nil, err
	}
	out.Name = "cdd"
	return out, nil
}

// PrecipAccumulation totals precipitation per period, in mm.
func PrecipAccumulation(pr *series.DataArray, freq string) (*series.DataArray, error) {
	if err := checkPr(pr); err != nil {
		return nil, err
	}
	f, err := cal.ParseFreq(freq)
	if err != nil {
		return nil, err
	}
	fac, err := prToMmd(pr) // mm/d over a daily step == mm
	if err != nil {
		return nil, err
	}
	out := pr.Resample(f, func(x []float64) float64 { return series.NanSum(x) * fac })
	out.Name, out.Units = "precip_accumulation", "mm"
	return out, nil
}

// DailyPrIntensity returns the mean precipitation of wet days (>= thresh)
// per period, in mm/d.
func DailyPrIntensity(pr *series.DataArray, thresh, freq string) (*series.DataArray, error) {
	if err := checkPr(pr); err != nil {
		return nil, err
	}
	f, err := cal.ParseFreq(freq)
	if err != nil {
		return nil, err
	}
	tv, err := threshIn(thresh, pr)
	if err != nil {
		return nil, err
	}
	fac, err := prToMmd(pr)
	if err != nil {
		return nil, err
	}
	out := pr.Resample(f, func(x []float64) float64 {
		s, n, any := 0., 0, false
		for _, v := range x {
			if math.IsNaN(v) {
				continue
			}
			any = true
			if v >= tv {
				s += v
				n++
			}
		}
		if !any {
			return math.NaN()
		}
		if n == 0 {
			return 0
		}
		return s * fac / float64(n)
	})
	out.Name, out.Units = "daily_pr_intensity", "mm/d"
	return out, nil
}

// MaxNDayPrecipitationAmount returns the periodic maximum of the rolling
// n-day precipitation total, in mm.
func MaxNDayPrecipitationAmount(pr *series.DataArray, n int, freq string) (*series.DataArray, error) {
	if err := checkPr(pr); err != nil {
		return nil, err
	}
	f, err := cal.ParseFreq(freq)
	if err != nil {
		return nil, err
	}
	fac, err := prToMmd(pr)
	if err != nil {
		return nil, err
	}
	if n < 1 {
		n = 1
	}
	// rolling sum on the full axis, then periodic max; windows shorter than
	// n at the period head reach back into the previous period, matching a
	// rolling-then-resample order of operations
	roll := pr.Like("rolling", pr.Units)
	series.Pmap(pr.Nloc(), 0, func(i int) {
		row := pr.Data[i]
		for j := range row {
			j0 := j - n + 1
			if j0 < 0 {
				j0 = 0
			}
			roll.Data[i][j] = series.NanSum(row[j0 : j+1])
		}
	})
	out := roll.Resample(f, func(x []float64) float64 { return series.NanMax(x) * fac })
	out.Name, out.Units = "max_n_day_precipitation_amount", "mm"
	return out, nil
}

// RainOnFrozenGroundDays counts days with rain at or above thresh over
// frozen ground (tas below 0 degC).
func RainOnFrozenGroundDays(pr, tas *series.DataArray, thresh, freq string) (*series.DataArray, error) {
	if err := checkPr(pr); err != nil {
		return nil, err
	}
	if err := checkTemp(tas); err != nil {
		return nil, err
	}
	if err := pr.SameShape(tas); err != nil {
		return nil, err
	}
	f, err := cal.ParseFreq(freq)
	if err != nil {
		return nil, err
	}
	tv, err := threshIn(thresh, pr)
	if err != nil {
		return nil, err
	}
	t0, err := threshIn("0 degC", tas)
	if err != nil {
		return nil, err
	}
	mask := pr.Like("rofg", "1")
	series.Pmap(pr.Nloc(), 0, func(i int) {
		for j := range pr.Data[i] {
			p, t := pr.Data[i][j], tas.Data[i][j]
			if math.IsNaN(p) || math.IsNaN(t) {
				mask.Data[i][j] = math.NaN()
			} else if p >= tv && t < t0 {
				mask.Data[i][j] = 1
			}
		}
	})
	out := mask.Resample(f, series.NanSum)
	out.Name, out.Units = "rain_frzgr", "d"
	return out, nil
}

// LiquidPrecipAccumulation totals precipitation of days with tas at or above
// thresh (default "0 degC"), in mm. SolidPrecipAccumulation is the
// complement.
func LiquidPrecipAccumulation(pr, tas *series.DataArray, thresh, freq string) (*series.DataArray, error) {
	return phasePrecip(pr, tas, thresh, freq, "liquid_precip_accumulation", true)
}

func SolidPrecipAccumulation(pr, tas *series.DataArray, thresh, freq string) (*series.DataArray, error) {
	return phasePrecip(pr, tas, thresh, freq, "solid_precip_accumulation", false)
}

func phasePrecip(pr, tas *series.DataArray, thresh, freq, name string, liquid bool) (*series.DataArray, error) {
	if err := checkPr(pr); err != nil {
		return nil, err
	}
	if err := checkTemp(tas); err != nil {
		return nil, err
	}
	if err := pr.SameShape(tas); err != nil {
		return nil, err
	}
	f, err := cal.ParseFreq(freq)
	if err != nil {
		return nil, err
	}
	t0, err := threshIn(thresh, tas)
	if err != nil {
		return nil, err
	}
	fac, err := prToMmd(pr)
	if err != nil {
		return nil, err
	}
	phase := pr.Like(name, pr.Units)
	series.Pmap(pr.Nloc(), 0, func(i int) {
		for j := range pr.Data[i] {
			p, t := pr.Data[i][j], tas.Data[i][j]
			if math.IsNaN(p) || math.IsNaN(t) {
				phase.Data[i][j] = math.NaN()
			} else if (liquid && t >= t0) || (!liquid && t < t0) {
				phase.Data[i][j] = p
			}
		}
	})
	out := phase.Resample(f, func(x []float64) float64 { return series.NanSum(x) * fac })
	out.Name, out.Units = name, "mm"
	return out, nil
}

// DaysOverPrecipThresh counts wet days exceeding a per-calendar-day
// percentile threshold.
func DaysOverPrecipThresh(pr *series.DataArray, per *DoyPercentiles, freq string) (*series.DataArray, error) {
	return overDoyThresh(pr, per, freq, "days_over_precip_thresh", false)
}

// FractionOverPrecipThresh returns the fraction of the periodic total
// falling on days exceeding the per-calendar-day percentile threshold.
func FractionOverPrecipThresh(pr *series.DataArray, per *DoyPercentiles, freq string) (*series.DataArray, error) {
	return overDoyThresh(pr, per, freq, "fraction_over_precip_thresh", true)
}

func overDoyThresh(pr *series.DataArray, per *DoyPercentiles, freq, name string, fraction bool) (*series.DataArray, error) {
	if err := checkPr(pr); err != nil {
		return nil, err
	}
	f, err := cal.ParseFreq(freq)
	if err != nil {
		return nil, err
	}
	doy := pr.Axis.DayOfYear()
	spans := pr.Axis.Resample(f)
	ax := &cal.Axis{Dates: make([]cal.Date, len(spans)), Cal: pr.Axis.Cal}
	for k, sp := range spans {
		ax.Dates[k] = sp.Start
	}
	un := "d"
	if fraction {
		un = "1"
	}
	out := series.New(name, un, ax, pr.Nloc())
	series.Pmap(pr.Nloc(), 0, func(i int) {
		row := pr.Data[i]
		for k, sp := range spans {
			nd, over, tot, overtot := 0, 0, 0., 0.
			for j := sp.I0; j < sp.I1; j++ {
				v := row[j]
				if math.IsNaN(v) {
					continue
				}
				nd++
				tot += v
				if th := per.At(i, doy[j]); !math.IsNaN(th) && v > th {
					over++
					overtot += v
				}
			}
			switch {
			case nd == 0:
				out.Data[i][k] = math.NaN()
			case fraction && tot > 0:
				out.Data[i][k] = overtot / tot
			case fraction:
				out.Data[i][k] = 0
			default:
				out.Data[i][k] = float64(over)
			}
		}
	})
	return out, nil
}
