package indices

import (
	"fmt"
	"math"

	"github.com/GlobalManagement/xclim/cal"
	"github.com/GlobalManagement/xclim/rl"
	"github.com/GlobalManagement/xclim/series"
	"github.com/GlobalManagement/xclim/units"
)

// FrostDays counts days with tasmin below 0 degC per period.
func FrostDays(tasmin *series.DataArray, freq string) (*series.DataArray, error) {
	if err := checkTemp(tasmin); err != nil {
		return nil, err
	}
	out, err := countDays(tasmin, "0 degC", lt, freq)
	if err != nil {
		return nil, err
	}
	out.Name = "frost_days"
	return out, nil
}

// IceDays counts days with tasmax below 0 degC per period.
func IceDays(tasmax *series.DataArray, freq string) (*series.DataArray, error) {
	if err := checkTemp(tasmax); err != nil {
		return nil, err
	}
	out, err := countDays(tasmax, "0 degC", lt, freq)
	if err != nil {
		return nil, err
	}
	out.Name = "ice_days"
	return out, nil
}

// TropicalNights counts days with tasmin above thresh (default "20 degC").
func TropicalNights(tasmin *series.DataArray, thresh, freq string) (*series.DataArray, error) {
	if err := checkTemp(tasmin); err != nil {
		return nil, err
	}
	out, err := countDays(tasmin, thresh, gt, freq)
	if err != nil {
		return nil, err
	}
	out.Name = "tropical_nights"
	return out, nil
}

// HotDays counts days with tasmax above thresh.
func HotDays(tasmax *series.DataArray, thresh, freq string) (*series.DataArray, error) {
	if err := checkTemp(tasmax); err != nil {
		return nil, err
	}
	out, err := countDays(tasmax, thresh, gt, freq)
	if err != nil {
		return nil, err
	}
	out.Name = "hot_days"
	return out, nil
}

// CoolingDegreeDays accumulates tas excess above thresh (default "18 degC").
func CoolingDegreeDays(tas *series.DataArray, thresh, freq string) (*series.DataArray, error) {
	out, err := degreeDays(tas, thresh, true, freq)
	if err != nil {
		return nil, err
	}
	out.Name = "cooling_degree_days"
	return out, nil
}

// HeatingDegreeDays accumulates tas deficit below thresh (default "17 degC").
func HeatingDegreeDays(tas *series.DataArray, thresh, freq string) (*series.DataArray, error) {
	out, err := degreeDays(tas, thresh, false, freq)
	if err != nil {
		return nil, err
	}
	out.Name = "heating_degree_days"
	return out, nil
}

// GrowingDegreeDays accumulates tas excess above thresh (default "4 degC").
func GrowingDegreeDays(tas *series.DataArray, thresh, freq string) (*series.DataArray, error) {
	out, err := degreeDays(tas, thresh, true, freq)
	if err != nil {
		return nil, err
	}
	out.Name = "growing_degree_days"
	return out, nil
}

// ConsecutiveFrostDays returns the longest run of days with tasmin below
// 0 degC per period. The conventional frequency is AS-JUL so that northern
// winters are not split.
func ConsecutiveFrostDays(tasmin *series.DataArray, freq string) (*series.DataArray, error) {
	if err := checkTemp(tasmin); err != nil {
		return nil, err
	}
	out, err := spell(tasmin, "0 degC", lt, freq, rl.LongestRun)
	if err != nil {
		return nil, err
	}
	out.Name = "consecutive_frost_days"
	return out, nil
}

// ColdSpellDays counts the days belonging to spells of at least window
// consecutive days with tas below thresh (default "-10 degC").
func ColdSpellDays(tas *series.DataArray, thresh string, window int, freq string) (*series.DataArray, error) {
	if err := checkTemp(tas); err != nil {
		return nil, err
	}
	out, err := spell(tas, thresh, lt, freq, func(b []bool) int { return rl.WindowedRunCount(b, window) })
	if err != nil {
		return nil, err
	}
	out.Name = "cold_spell_days"
	return out, nil
}

// HeatWaveIndex counts the days belonging to spells of at least window
// consecutive days with tasmax above thresh (default "25 degC").
func HeatWaveIndex(tasmax *series.DataArray, thresh string, window int, freq string) (*series.DataArray, error) {
	if err := checkTemp(tasmax); err != nil {
		return nil, err
	}
	out, err := spell(tasmax, thresh, gt, freq, func(b []bool) int { return rl.WindowedRunCount(b, window) })
	if err != nil {
		return nil, err
	}
	out.Name = "heat_wave_index"
	return out, nil
}

// DailyTemperatureRange returns the periodic mean of tasmax-tasmin.
func DailyTemperatureRange(tasmax, tasmin *series.DataArray, freq string) (*series.DataArray, error) {
	if err := checkTemp(tasmax); err != nil {
		return nil, err
	}
	if err := tasmax.SameShape(tasmin); err != nil {
		return nil, err
	}
	if err := units.CheckCompatible(tasmax.Units, tasmin.Units); err != nil {
		return nil, err
	}
	fac, err := units.Convert(1, tasmin.Units, tasmax.Units)
	if err != nil {
		return nil, err
	}
	off, err := units.Convert(0, tasmin.Units, tasmax.Units)
	if err != nil {
		return nil, err
	}
	f, err := cal.ParseFreq(freq)
	if err != nil {
		return nil, err
	}
	dtr := tasmax.Like("dtr", "K")
	series.Pmap(tasmax.Nloc(), 0, func(i int) {
		for j, v := range tasmax.Data[i] {
			dtr.Data[i][j] = v - (tasmin.Data[i][j]*fac + off)
		}
	})
	out := dtr.Resample(f, series.NanMean)
	out.Name, out.Units = "dtr", "K"
	return out, nil
}

// FreezeThawCycles counts days crossing 0 degC (tasmax above, tasmin below).
func FreezeThawCycles(tasmax, tasmin *series.DataArray, freq string) (*series.DataArray, error) {
	if err := checkTemp(tasmax); err != nil {
		return nil, err
	}
	if err := checkTemp(tasmin); err != nil {
		return nil, err
	}
	if err := tasmax.SameShape(tasmin); err != nil {
		return nil, err
	}
	tx0, err := threshIn("0 degC", tasmax)
	if err != nil {
		return nil, err
	}
	tn0, err := threshIn("0 degC", tasmin)
	if err != nil {
		return nil, err
	}
	f, err := cal.ParseFreq(freq)
	if err != nil {
		return nil, err
	}
	ft := tasmax.Like("freezethaw", "1")
	series.Pmap(tasmax.Nloc(), 0, func(i int) {
		for j := range tasmax.Data[i] {
			mx, mn := tasmax.Data[i][j], tasmin.Data[i][j]
			if math.IsNaN(mx) || math.IsNaN(mn) {
				ft.Data[i][j] = math.NaN()
			} else if mx > tx0 && mn < tn0 {
				ft.Data[i][j] = 1
			}
		}
	})
	out := ft.Resample(f, series.NanSum)
	out.Name, out.Units = "freezethaw_cycles", "d"
	return out, nil
}

// TG returns the periodic mean of daily mean temperature. TN and TX are the
// same statistic of tasmin and tasmax.
func TG(tas *series.DataArray, freq string) (*series.DataArray, error) {
	return tempStat(tas, freq, "tg_mean", series.NanMean)
}

func TN(tasmin *series.DataArray, freq string) (*series.DataArray, error) {
	return tempStat(tasmin, freq, "tn_mean", series.NanMean)
}

func TX(tasmax *series.DataArray, freq string) (*series.DataArray, error) {
	return tempStat(tasmax, freq, "tx_mean", series.NanMean)
}

// TNn, TNx, TXn and TXx are the periodic extrema of tasmin and tasmax.
func TNn(tasmin *series.DataArray, freq string) (*series.DataArray, error) {
	return tempStat(tasmin, freq, "tn_min", series.NanMin)
}

func TNx(tasmin *series.DataArray, freq string) (*series.DataArray, error) {
	return tempStat(tasmin, freq, "tn_max", series.NanMax)
}

func TXn(tasmax *series.DataArray, freq string) (*series.DataArray, error) {
	return tempStat(tasmax, freq, "tx_min", series.NanMin)
}

func TXx(tasmax *series.DataArray, freq string) (*series.DataArray, error) {
	return tempStat(tasmax, freq, "tx_max", series.NanMax)
}

func tempStat(da *series.DataArray, freq, name string, stat func([]float64) float64) (*series.DataArray, error) {
	if err := checkTemp(da); err != nil {
		return nil, err
	}
	out, err := aggregate(da, freq, stat)
	if err != nil {
		return nil, err
	}
	out.Name = name
	return out, nil
}

// TN10p counts days with tasmin below the calendar-day 10th percentile
// climatology p10 (from PercentileDOY of a reference period).
func TN10p(tasmin *series.DataArray, p10 *DoyPercentiles, freq string) (*series.DataArray, error) {
	if err := checkTemp(tasmin); err != nil {
		return nil, err
	}
	if p10.Nloc() != tasmin.Nloc() {
		return nil, fmt.Errorf("indices: TN10p: %d percentile locations for %d data locations", p10.Nloc(), tasmin.Nloc())
	}
	f, err := cal.ParseFreq(freq)
	if err != nil {
		return nil, err
	}
	doy := tasmin.Axis.DayOfYear()
	under := tasmin.Like("tn10p", "d")
	series.Pmap(tasmin.Nloc(), 0, func(i int) {
		for j, v := range tasmin.Data[i] {
			th := p10.At(i, doy[j])
			if math.IsNaN(v) || math.IsNaN(th) {
				under.Data[i][j] = math.NaN()
			} else if v < th {
				under.Data[i][j] = 1
			}
		}
	})
	out := under.Resample(f, series.NanSum)
	out.Name, out.Units = "tn10p", "d"
	return out, nil
}

// GrowingSeasonLength returns, per calendar year, the number of days between
// the first span of at least window days with tas above thresh and the first
// span after mid-year of at least window days below it.
func GrowingSeasonLength(tas *series.DataArray, thresh string, window int, freq string) (*series.DataArray, error) {
	if err := checkTemp(tas); err != nil {
		return nil, err
	}
	f, err := cal.ParseFreq(freq)
	if err != nil {
		return nil, err
	}
	if f.Unit != 'Y' {
		return nil, fmt.Errorf("indices: growing season length requires an annual frequency, got %q", freq)
	}
	tv, err := threshIn(thresh, tas)
	if err != nil {
		return nil, err
	}
	out := tas.Resample(f, func(x []float64) float64 {
		warm, cold := make([]bool, len(x)), make([]bool, len(x))
		any := false
		for j, v := range x {
			if math.IsNaN(v) {
				continue
			}
			any = true
			warm[j] = v > tv
			cold[j] = v < tv
		}
		if !any {
			return math.NaN()
		}
		start := rl.FirstRun(warm, window)
		if start < 0 {
			return 0
		}
		mid := len(x) / 2
		end := rl.FirstRun(cold[mid:], window)
		if end < 0 {
			return float64(len(x) - start)
		}
		end += mid
		if end <= start {
			return 0
		}
		return float64(end - start)
	})
	out.Name, out.Units = "growing_season_length", "d"
	return out, nil
}
