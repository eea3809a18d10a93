package indices

import (
	"fmt"
	"math"
	"sort"

	"github.com/GlobalManagement/xclim/cal"
	"github.com/GlobalManagement/xclim/series"
	"gonum.org/v1/gonum/stat"
)

// DoyPercentiles is a day-of-year percentile climatology: one threshold per
// location and calendar day, estimated over a reference period with a
// centered window of calendar days.
type DoyPercentiles struct {
	Units string
	Per   float64     // percentile in [0,1]
	Vals  [][]float64 // [loc][doy-1]
}

// Nloc returns the number of locations.
func (p *DoyPercentiles) Nloc() int { return len(p.Vals) }

// At returns the threshold for 1-based calendar day doy. Day 366 falls back
// to day 365 when the climatology was built on a shorter calendar.
func (p *DoyPercentiles) At(loc, doy int) float64 {
	v := p.Vals[loc]
	if doy > len(v) {
		doy = len(v)
	}
	return v[doy-1]
}

// PercentileDOY estimates, per location and calendar day, the per percentile
// (in [0,1]) of the values falling within a centered window of calendar days
// across all years of da. The window wraps around the year boundary.
func PercentileDOY(da *series.DataArray, window int, per float64) (*DoyPercentiles, error) {
	if window < 1 || window%2 == 0 {
		return nil, fmt.Errorf("indices: percentile window must be odd and positive, got %d", window)
	}
	if per < 0 || per > 1 {
		return nil, fmt.Errorf("indices: percentile must be in [0,1], got %v", per)
	}
	ndoy := 366
	switch da.Axis.Cal {
	case cal.NoLeap:
		ndoy = 365
	case cal.Day360:
		ndoy = 360
	}
	doy := da.Axis.DayOfYear()

	// bucket time indices per calendar day
	byDoy := make([][]int, ndoy)
	for j, d := range doy {
		byDoy[d-1] = append(byDoy[d-1], j)
	}

	hw := window / 2
	out := &DoyPercentiles{Units: da.Units, Per: per, Vals: make([][]float64, da.Nloc())}
	series.Pmap(da.Nloc(), 0, func(i int) {
		row := da.Data[i]
		vals := make([]float64, ndoy)
		var pool []float64
		for d := 0; d < ndoy; d++ {
			pool = pool[:0]
			for o := -hw; o <= hw; o++ {
				dd := (d + o + ndoy) % ndoy
				for _, j := range byDoy[dd] {
					if v := row[j]; !math.IsNaN(v) {
						pool = append(pool, v)
					}
				}
			}
			if len(pool) == 0 {
				vals[d] = math.NaN()
				continue
			}
			sort.Float64s(pool)
			vals[d] = stat.Quantile(per, stat.LinInterp, pool, nil)
		}
		out.Vals[i] = vals
	})
	return out, nil
}
