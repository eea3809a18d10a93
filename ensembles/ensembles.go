// Package ensembles pools several realizations of the same variable and
// reduces across them: mean, spread, extremes and percentiles per location
// and time step. Members from models on different calendars are aligned onto
// a common calendar and overlapping period first.
package ensembles

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/GlobalManagement/xclim/cal"
	"github.com/GlobalManagement/xclim/series"
	"github.com/GlobalManagement/xclim/units"
)

// Ensemble holds aligned realizations: every member shares the axis, units
// and location count.
type Ensemble struct {
	Name    string
	Units   string
	Axis    *cal.Axis
	Members []*series.DataArray
}

// Create aligns members into an ensemble: all are converted to the first
// member's calendar and units, then cut to the overlapping period. Steps a
// member cannot supply (a Feb 29 absent from its calendar) are NaN.
func Create(members []*series.DataArray) (*Ensemble, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("ensembles: no members")
	}
	first := members[0]
	nloc := first.Nloc()
	aligned := make([]*series.DataArray, len(members))
	for k, m := range members {
		if m.Nloc() != nloc {
			return nil, fmt.Errorf("ensembles: member %d has %d locations, want %d", k, m.Nloc(), nloc)
		}
		if err := units.CheckCompatible(m.Units, first.Units); err != nil {
			return nil, fmt.Errorf("ensembles: member %d: %w", k, err)
		}
		c := m.ConvertCalendar(first.Axis.Cal)
		if m.Units != first.Units {
			c = c.Copy()
			for i := range c.Data {
				if err := units.ConvertSlice(c.Data[i], m.Units, first.Units); err != nil {
					return nil, err
				}
			}
			c.Units = first.Units
		}
		aligned[k] = c
	}
	// overlapping period
	start, end := aligned[0].Axis.Dates[0], aligned[0].Axis.Dates[aligned[0].NT()-1]
	for _, m := range aligned[1:] {
		if start.Before(m.Axis.Dates[0]) {
			start = m.Axis.Dates[0]
		}
		if m.Axis.Dates[m.NT()-1].Before(end) {
			end = m.Axis.Dates[m.NT()-1]
		}
	}
	if end.Before(start) {
		return nil, fmt.Errorf("ensembles: members share no period")
	}
	for k, m := range aligned {
		i0 := dateIndex(m.Axis, start)
		i1 := dateIndex(m.Axis, end)
		if i0 < 0 || i1 < 0 {
			return nil, fmt.Errorf("ensembles: member %d missing the common period bounds", k)
		}
		cut := &series.DataArray{
			Name:  m.Name,
			Units: m.Units,
			Axis:  m.Axis.Subset(i0, i1+1),
		}
		cut.Data = make([][]float64, nloc)
		for i := range cut.Data {
			cut.Data[i] = m.Data[i][i0 : i1+1]
		}
		aligned[k] = cut
	}
	return &Ensemble{
		Name:    first.Name,
		Units:   first.Units,
		Axis:    aligned[0].Axis,
		Members: aligned,
	}, nil
}

func dateIndex(ax *cal.Axis, d cal.Date) int {
	for i, v := range ax.Dates {
		if v == d {
			return i
		}
	}
	return -1
}

// Size returns the member count.
func (e *Ensemble) Size() int { return len(e.Members) }

func (e *Ensemble) reduce(suffix string, fn func([]float64) float64) *series.DataArray {
	nloc := e.Members[0].Nloc()
	out := series.New(e.Name+suffix, e.Units, e.Axis, nloc)
	series.Pmap(nloc, 0, func(i int) {
		buf := make([]float64, len(e.Members))
		for j := 0; j < e.Axis.Len(); j++ {
			for k, m := range e.Members {
				buf[k] = m.Data[i][j]
			}
			out.Data[i][j] = fn(buf)
		}
	})
	return out
}

// Mean reduces to the member mean, skipping members that are NaN at a step.
func (e *Ensemble) Mean() *series.DataArray { return e.reduce("_mean", series.NanMean) }

// Std reduces to the member standard deviation.
func (e *Ensemble) Std() *series.DataArray { return e.reduce("_stdev", series.NanStd) }

// Min reduces to the member minimum.
func (e *Ensemble) Min() *series.DataArray { return e.reduce("_min", series.NanMin) }

// Max reduces to the member maximum.
func (e *Ensemble) Max() *series.DataArray { return e.reduce("_max", series.NanMax) }

// Percentiles reduces to member percentiles, one variable per requested
// level (0-100), named like tg_mean_p10. Steps where every member is NaN
// stay NaN.
func (e *Ensemble) Percentiles(levels []float64) (*series.Dataset, error) {
	for _, p := range levels {
		if p < 0 || p > 100 {
			return nil, fmt.Errorf("ensembles: percentile %v out of [0,100]", p)
		}
	}
	ds := series.NewDataset(e.Axis)
	for _, p := range levels {
		pv := p / 100
		da := e.reduce(fmt.Sprintf("_p%02.0f", p), func(buf []float64) float64 {
			s := series.Dropna(buf)
			if len(s) == 0 {
				return math.NaN()
			}
			sort.Float64s(s)
			return stat.Quantile(pv, stat.LinInterp, s, nil)
		})
		if err := ds.Add(da); err != nil {
			return nil, err
		}
	}
	return ds, nil
}
