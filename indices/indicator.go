package indices

import (
	"fmt"
	"math"

	"github.com/GlobalManagement/xclim/cal"
	"github.com/GlobalManagement/xclim/series"
	"github.com/GlobalManagement/xclim/units"
)

// Missing decides whether a resampled period is invalidated by missing input
// days.
type Missing interface {
	IsMissing(nmiss, size int) bool
}

// MissingAny invalidates a period with any missing day.
type MissingAny struct{}

func (MissingAny) IsMissing(nmiss, _ int) bool { return nmiss > 0 }

// MissingPct tolerates a fraction of missing days.
type MissingPct struct{ Tol float64 }

func (m MissingPct) IsMissing(nmiss, size int) bool {
	if size == 0 {
		return true
	}
	return float64(nmiss)/float64(size) > m.Tol
}

// Indicator wraps an index computation with unit validation, output metadata
// and a missing-value policy, the way the operational indicator definitions
// do.
type Indicator struct {
	Identifier  string
	Title       string
	Units       string // expected output units
	CellMethods string
	InputDims   []string // required dimension per input ("temperature", ...)
	Missing     Missing
	Compute     func(freq string, ins ...*series.DataArray) (*series.DataArray, error)
}

// Call validates inputs, computes the index and applies the missing policy
// using the first input's coverage.
func (ind *Indicator) Call(freq string, ins ...*series.DataArray) (*series.DataArray, error) {
	if len(ins) != len(ind.InputDims) {
		return nil, fmt.Errorf("indices: %s takes %d inputs, got %d", ind.Identifier, len(ind.InputDims), len(ins))
	}
	for k, da := range ins {
		dim, err := units.Dimension(da.Units)
		if err != nil {
			return nil, fmt.Errorf("indices: %s input %d: %v", ind.Identifier, k, err)
		}
		if dim != ind.InputDims[k] {
			return nil, fmt.Errorf("indices: %s input %d: want %s units, got %q", ind.Identifier, k, ind.InputDims[k], da.Units)
		}
	}
	out, err := ind.Compute(freq, ins...)
	if err != nil {
		return nil, err
	}
	if out.Units != ind.Units {
		for i := range out.Data {
			if err := units.ConvertSlice(out.Data[i], out.Units, ind.Units); err != nil {
				return nil, fmt.Errorf("indices: %s output: %v", ind.Identifier, err)
			}
		}
		out.Units = ind.Units
	}
	out.CellMethods = ind.CellMethods
	if ind.Missing != nil {
		f, err := cal.ParseFreq(freq)
		if err != nil {
			return nil, err
		}
		miss, size := ins[0].ResampleCounts(f)
		series.Pmap(out.Nloc(), 0, func(i int) {
			for k := range out.Data[i] {
				if ind.Missing.IsMissing(miss[i][k], size[i][k]) {
					out.Data[i][k] = math.NaN()
				}
			}
		})
	}
	return out, nil
}

// Builtins returns the predefined indicator set keyed by identifier.
func Builtins() map[string]*Indicator {
	m := map[string]*Indicator{}
	add := func(ind *Indicator) { m[ind.Identifier] = ind }

	add(&Indicator{
		Identifier: "frost_days", Title: "Number of days with tasmin below 0 degC",
		Units: "d", CellMethods: "time: minimum within days time: sum over days",
		InputDims: []string{"temperature"}, Missing: MissingAny{},
		Compute: func(freq string, ins ...*series.DataArray) (*series.DataArray, error) {
			return FrostDays(ins[0], freq)
		},
	})
	add(&Indicator{
		Identifier: "ice_days", Title: "Number of days with tasmax below 0 degC",
		Units: "d", CellMethods: "time: maximum within days time: sum over days",
		InputDims: []string{"temperature"}, Missing: MissingAny{},
		Compute: func(freq string, ins ...*series.DataArray) (*series.DataArray, error) {
			return IceDays(ins[0], freq)
		},
	})
	add(&Indicator{
		Identifier: "tx_max", Title: "Maximum daily maximum temperature",
		Units: "K", CellMethods: "time: maximum within days time: maximum over days",
		InputDims: []string{"temperature"}, Missing: MissingPct{Tol: 0.05},
		Compute: func(freq string, ins ...*series.DataArray) (*series.DataArray, error) {
			return TXx(ins[0], freq)
		},
	})
	add(&Indicator{
		Identifier: "tg_mean", Title: "Mean daily mean temperature",
		Units: "K", CellMethods: "time: mean within days time: mean over days",
		InputDims: []string{"temperature"}, Missing: MissingPct{Tol: 0.05},
		Compute: func(freq string, ins ...*series.DataArray) (*series.DataArray, error) {
			return TG(ins[0], freq)
		},
	})
	add(&Indicator{
		Identifier: "growing_degree_days", Title: "Growing degree days above 4 degC",
		Units: "K d", CellMethods: "time: mean within days time: sum over days",
		InputDims: []string{"temperature"}, Missing: MissingAny{},
		Compute: func(freq string, ins ...*series.DataArray) (*series.DataArray, error) {
			return GrowingDegreeDays(ins[0], "4 degC", freq)
		},
	})
	add(&Indicator{
		Identifier: "wetdays", Title: "Number of days with precipitation at or above 1 mm/d",
		Units: "d", CellMethods: "time: sum within days time: sum over days",
		InputDims: []string{"precip_flux"}, Missing: MissingAny{},
		Compute: func(freq string, ins ...*series.DataArray) (*series.DataArray, error) {
			return Wetdays(ins[0], "1 mm/d", freq)
		},
	})
	add(&Indicator{
		Identifier: "precip_accumulation", Title: "Total precipitation",
		Units: "mm", CellMethods: "time: sum within days time: sum over days",
		InputDims: []string{"precip_flux"}, Missing: MissingPct{Tol: 0.05},
		Compute: func(freq string, ins ...*series.DataArray) (*series.DataArray, error) {
			return PrecipAccumulation(ins[0], freq)
		},
	})
	add(&Indicator{
		Identifier: "cdd", Title: "Maximum consecutive dry days (pr below 1 mm/d)",
		Units: "d", CellMethods: "time: sum within days time: maximum over days",
		InputDims: []string{"precip_flux"}, Missing: MissingAny{},
		Compute: func(freq string, ins ...*series.DataArray) (*series.DataArray, error) {
			return MaximumConsecutiveDryDays(ins[0], "1 mm/d", freq)
		},
	})
	return m
}
