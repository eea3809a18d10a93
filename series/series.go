// Package series defines the labeled data array the library computes on: a
// [location][time] block of float64 sharing one calendar-aware axis, with NaN
// as the missing-value sentinel. All heavy operations map over the location
// dimension with a fixed worker pool (see Pmap).
package series

import (
	"fmt"
	"math"

	"github.com/GlobalManagement/xclim/cal"
)

// DataArray is a named, unit-tagged [location][time] array.
type DataArray struct {
	Name        string
	Units       string
	CellMethods string // CF cell_methods, set by the indicator wrappers
	Axis        *cal.Axis
	Data        [][]float64 // [locID][dateID]
}

// New allocates a zeroed array of nloc locations on the given axis.
func New(name, units string, ax *cal.Axis, nloc int) *DataArray {
	d := make([][]float64, nloc)
	for i := range d {
		d[i] = make([]float64, ax.Len())
	}
	return &DataArray{Name: name, Units: units, Axis: ax, Data: d}
}

// FromData wraps existing data, validating shape against the axis.
func FromData(name, units string, ax *cal.Axis, data [][]float64) (*DataArray, error) {
	for i, row := range data {
		if len(row) != ax.Len() {
			return nil, fmt.Errorf("series: location %d has %d steps, axis has %d", i, len(row), ax.Len())
		}
	}
	if err := ax.Validate(); err != nil {
		return nil, err
	}
	return &DataArray{Name: name, Units: units, Axis: ax, Data: data}, nil
}

// Nloc returns the number of locations.
func (da *DataArray) Nloc() int { return len(da.Data) }

// NT returns the number of time steps.
func (da *DataArray) NT() int { return da.Axis.Len() }

// Copy deep-copies the array (the axis is shared).
func (da *DataArray) Copy() *DataArray {
	d := make([][]float64, len(da.Data))
	for i, row := range da.Data {
		d[i] = append([]float64(nil), row...)
	}
	return &DataArray{Name: da.Name, Units: da.Units, CellMethods: da.CellMethods, Axis: da.Axis, Data: d}
}

// Like allocates an empty array with da's shape and axis.
func (da *DataArray) Like(name, units string) *DataArray {
	return New(name, units, da.Axis, da.Nloc())
}

// SameShape returns an error unless all arrays share da's axis and location
// count.
func (da *DataArray) SameShape(others ...*DataArray) error {
	for _, o := range others {
		if o.Nloc() != da.Nloc() {
			return fmt.Errorf("series: location mismatch %d vs %d", da.Nloc(), o.Nloc())
		}
		if !da.Axis.Equal(o.Axis) {
			return fmt.Errorf("series: axes differ (%s vs %s)", da.Name, o.Name)
		}
	}
	return nil
}

// ConvertCalendar reindexes the array onto another calendar. Dates absent
// from the target calendar are dropped; dates absent from the source are
// NaN-filled.
func (da *DataArray) ConvertCalendar(to cal.Calendar) *DataArray {
	ax, ix := da.Axis.ConvertCalendar(to)
	out := New(da.Name, da.Units, ax, da.Nloc())
	for i, row := range da.Data {
		for j, k := range ix {
			if k < 0 {
				out.Data[i][j] = math.NaN()
			} else {
				out.Data[i][j] = row[k]
			}
		}
	}
	return out
}

// Dataset is a named collection of arrays sharing one axis.
type Dataset struct {
	Axis *cal.Axis
	Vars map[string]*DataArray
}

// NewDataset starts an empty dataset on an axis.
func NewDataset(ax *cal.Axis) *Dataset {
	return &Dataset{Axis: ax, Vars: map[string]*DataArray{}}
}

// Add inserts an array, enforcing axis identity.
func (ds *Dataset) Add(da *DataArray) error {
	if !ds.Axis.Equal(da.Axis) {
		return fmt.Errorf("series: %q not on the dataset axis", da.Name)
	}
	ds.Vars[da.Name] = da
	return nil
}

// Get fetches a variable by name.
func (ds *Dataset) Get(name string) (*DataArray, error) {
	da, ok := ds.Vars[name]
	if !ok {
		return nil, fmt.Errorf("series: no variable %q in dataset", name)
	}
	return da, nil
}
