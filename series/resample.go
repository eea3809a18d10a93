package series

import (
	"github.com/GlobalManagement/xclim/cal"
)

// Resample reduces the array to one value per resampling period with the
// given kernel. The output axis carries period start dates on the same
// calendar.
func (da *DataArray) Resample(f cal.Freq, stat func([]float64) float64) *DataArray {
	spans := da.Axis.Resample(f)
	ax := &cal.Axis{Dates: make([]cal.Date, len(spans)), Cal: da.Axis.Cal}
	for k, sp := range spans {
		ax.Dates[k] = sp.Start
	}
	out := New(da.Name, da.Units, ax, da.Nloc())
	Pmap(da.Nloc(), 0, func(i int) {
		row := da.Data[i]
		for k, sp := range spans {
			out.Data[i][k] = stat(row[sp.I0:sp.I1])
		}
	})
	return out
}

// ResampleCounts returns, per period, the number of missing input steps and
// the period length. Indicator missing-value policies are decided from these.
func (da *DataArray) ResampleCounts(f cal.Freq) (miss, size [][]int) {
	spans := da.Axis.Resample(f)
	miss, size = make([][]int, da.Nloc()), make([][]int, da.Nloc())
	Pmap(da.Nloc(), 0, func(i int) {
		m, s := make([]int, len(spans)), make([]int, len(spans))
		for k, sp := range spans {
			s[k] = sp.I1 - sp.I0
			m[k] = s[k] - CountValid(da.Data[i][sp.I0:sp.I1])
		}
		miss[i], size[i] = m, s
	})
	return
}

// Apply maps an elementwise kernel over the array, returning a new array
// with the given name and units.
func (da *DataArray) Apply(name, units string, fn func(v float64) float64) *DataArray {
	out := New(name, units, da.Axis, da.Nloc())
	Pmap(da.Nloc(), 0, func(i int) {
		for j, v := range da.Data[i] {
			out.Data[i][j] = fn(v)
		}
	})
	return out
}
