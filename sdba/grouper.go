// Package sdba implements statistical bias adjustment of daily climate
// series: grouped (windowed, periodic) statistics, quantile-mapping
// train/adjust estimators, detrending, and the N-dimensional pdf transform.
//
// Estimators follow a fit/transform pattern: Train consumes a reference and a
// historical simulation on a common axis; Adjust applies the learned
// correction to a (possibly future) simulated series.
package sdba

import (
	"fmt"
	"math"

	"github.com/GlobalManagement/xclim/cal"
)

// Grouper assigns every time step to a group over which adjustment factors
// are pooled: all steps at once ("time"), by month ("time.month"), by
// three-month season ("time.season") or by calendar day ("time.dayofyear").
// For the periodic groupings, a centered window of neighbouring periods
// (wrapping the year boundary) widens the training pool; broadcasting back
// uses the center label only.
type Grouper struct {
	Dim    string
	Window int  // odd, in group units; 1 disables widening
	Interp bool // linear interpolation between group centers on broadcast
}

// NewGrouper validates and builds a Grouper.
func NewGrouper(dim string, window int) (Grouper, error) {
	switch dim {
	case "time", "time.month", "time.season", "time.dayofyear":
	default:
		return Grouper{}, fmt.Errorf("sdba: unknown grouping %q", dim)
	}
	if window < 1 || window%2 == 0 {
		return Grouper{}, fmt.Errorf("sdba: group window must be odd and positive, got %d", window)
	}
	if dim == "time" && window != 1 {
		return Grouper{}, fmt.Errorf("sdba: the whole-series grouping takes no window")
	}
	return Grouper{Dim: dim, Window: window}, nil
}

// NGroups returns the group count for an axis calendar.
func (g Grouper) NGroups(c cal.Calendar) int {
	switch g.Dim {
	case "time.month":
		return 12
	case "time.season":
		return 4
	case "time.dayofyear":
		switch c {
		case cal.NoLeap:
			return 365
		case cal.Day360:
			return 360
		default:
			return 366
		}
	default:
		return 1
	}
}

// Labels returns the 0-based group label of every axis step.
func (g Grouper) Labels(ax *cal.Axis) []int {
	switch g.Dim {
	case "time.month":
		m := ax.Months()
		for i := range m {
			m[i]--
		}
		return m
	case "time.season":
		return ax.Seasons()
	case "time.dayofyear":
		d := ax.DayOfYear()
		for i := range d {
			d[i]--
		}
		return d
	default:
		return make([]int, ax.Len())
	}
}

// Indices returns, per group, the axis steps of its training pool: the
// group's own steps plus those of the window neighbours, wrapping at the
// year boundary.
func (g Grouper) Indices(ax *cal.Axis) [][]int {
	ng := g.NGroups(ax.Cal)
	lab := g.Labels(ax)
	byGroup := make([][]int, ng)
	for j, l := range lab {
		byGroup[l] = append(byGroup[l], j)
	}
	if g.Window == 1 {
		return byGroup
	}
	hw := g.Window / 2
	out := make([][]int, ng)
	for k := 0; k < ng; k++ {
		for o := -hw; o <= hw; o++ {
			out[k] = append(out[k], byGroup[((k+o)%ng+ng)%ng]...)
		}
	}
	return out
}

// Apply computes a statistic per group from the training pools.
func (g Grouper) Apply(ax *cal.Axis, vals []float64, stat func([]float64) float64) []float64 {
	idx := g.Indices(ax)
	out := make([]float64, len(idx))
	pool := make([]float64, 0, len(vals))
	for k, ix := range idx {
		pool = pool[:0]
		for _, j := range ix {
			pool = append(pool, vals[j])
		}
		out[k] = stat(pool)
	}
	return out
}

// Broadcast maps per-group values back onto the time axis. With Interp set,
// periodic groupings interpolate linearly between group centers instead of
// holding each group's value constant.
func (g Grouper) Broadcast(ax *cal.Axis, gvals []float64) []float64 {
	out := make([]float64, ax.Len())
	if !g.Interp || g.Dim == "time" || g.Dim == "time.season" {
		for j, l := range g.Labels(ax) {
			out[j] = gvals[l]
		}
		return out
	}
	pos := g.positions(ax) // fractional group coordinate per step
	for j, p := range pos {
		k0 := int(math.Floor(p))
		f := p - float64(k0)
		k0 = ((k0 % len(gvals)) + len(gvals)) % len(gvals)
		k1 := (k0 + 1) % len(gvals)
		out[j] = gvals[k0]*(1-f) + gvals[k1]*f
	}
	return out
}

// positions returns the fractional group coordinate of every step: label 0.5
// sits halfway between the centers of groups 0 and 1.
func (g Grouper) positions(ax *cal.Axis) []float64 {
	out := make([]float64, ax.Len())
	switch g.Dim {
	case "time.month":
		for j, d := range ax.Dates {
			dim := float64(ax.Cal.DaysInMonth(d.Year, d.Month))
			frac := (float64(d.Day) - 0.5) / dim // 0.5 at the month center
			out[j] = float64(d.Month-1) + frac - 0.5
		}
	case "time.dayofyear":
		for j, l := range g.Labels(ax) {
			out[j] = float64(l)
		}
	default:
		// single group, constant
	}
	return out
}
