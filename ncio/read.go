// Package ncio moves daily series between NetCDF model output and the
// in-memory arrays the indicator and adjustment code works on: gridded
// (time, lat, lon) or station (time, location) variables flatten row-major
// into the location dimension on read; results go back out as CSV tables or
// raw float32 dumps.
package ncio

import (
	"fmt"
	"math"
	"reflect"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/GlobalManagement/xclim/series"
)

// ReadVar loads one variable and its time coordinate from a NetCDF file.
// Fill and missing values become NaN; scale_factor and add_offset are
// applied; the units attribute is carried onto the array.
func ReadVar(fp, name string) (*series.DataArray, error) {
	nc, err := netcdf.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("ncio: %v", err)
	}
	defer nc.Close()
	return readVar(nc, name)
}

func readVar(nc api.Group, name string) (*series.DataArray, error) {
	tv, err := nc.GetVariable("time")
	if err != nil {
		return nil, fmt.Errorf("ncio: no time coordinate: %v", err)
	}
	toffs, _, err := flatten(tv.Values)
	if err != nil {
		return nil, fmt.Errorf("ncio: time coordinate: %v", err)
	}
	ax, err := DecodeTime(attrString(tv.Attributes, "units"), attrString(tv.Attributes, "calendar"), toffs)
	if err != nil {
		return nil, err
	}

	v, err := nc.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("ncio: %v", err)
	}
	if len(v.Dimensions) == 0 || v.Dimensions[0] != "time" {
		return nil, fmt.Errorf("ncio: %q is not time-leading (dims %v)", name, v.Dimensions)
	}
	raw, shape, err := flatten(v.Values)
	if err != nil {
		return nil, fmt.Errorf("ncio: %q: %v", name, err)
	}
	nt := ax.Len()
	if len(shape) == 0 || shape[0] != nt {
		return nil, fmt.Errorf("ncio: %q has %v steps on a %d-step time axis", name, shape, nt)
	}
	nloc := 1
	for _, s := range shape[1:] {
		nloc *= s
	}

	scale := attrFloat(v.Attributes, "scale_factor", 1)
	offset := attrFloat(v.Attributes, "add_offset", 0)
	fill, hasFill := attrLookup(v.Attributes, "_FillValue")
	miss, hasMiss := attrLookup(v.Attributes, "missing_value")

	da := series.New(name, attrStringDefault(v.Attributes, "units", "1"), ax, nloc)
	for j := 0; j < nt; j++ {
		for i := 0; i < nloc; i++ {
			r := raw[j*nloc+i]
			switch {
			case hasFill && r == fill, hasMiss && r == miss, math.IsNaN(r):
				da.Data[i][j] = math.NaN()
			default:
				da.Data[i][j] = r*scale + offset
			}
		}
	}
	return da, nil
}

// ReadDataset loads several variables from one file onto a shared axis.
func ReadDataset(fp string, names ...string) (*series.Dataset, error) {
	nc, err := netcdf.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("ncio: %v", err)
	}
	defer nc.Close()
	var ds *series.Dataset
	for _, name := range names {
		da, err := readVar(nc, name)
		if err != nil {
			return nil, err
		}
		if ds == nil {
			ds = series.NewDataset(da.Axis)
		}
		if err := ds.Add(da); err != nil {
			return nil, err
		}
	}
	if ds == nil {
		return nil, fmt.Errorf("ncio: no variables requested")
	}
	return ds, nil
}

// ListVars returns the variable names in a file.
func ListVars(fp string) ([]string, error) {
	nc, err := netcdf.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("ncio: %v", err)
	}
	defer nc.Close()
	return nc.ListVariables(), nil
}

// flatten walks arbitrarily nested slices of any numeric type into a flat
// row-major float64 slice plus the shape.
func flatten(vals interface{}) ([]float64, []int, error) {
	var shape []int
	rv := reflect.ValueOf(vals)
	for rv.Kind() == reflect.Slice {
		shape = append(shape, rv.Len())
		if rv.Len() == 0 {
			return nil, nil, fmt.Errorf("empty dimension")
		}
		rv = rv.Index(0)
	}
	n := 1
	for _, s := range shape {
		n *= s
	}
	out := make([]float64, 0, n)
	var walk func(v reflect.Value) error
	walk = func(v reflect.Value) error {
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				if err := walk(v.Index(i)); err != nil {
					return err
				}
			}
			return nil
		}
		switch v.Kind() {
		case reflect.Float32, reflect.Float64:
			out = append(out, v.Float())
		case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
			out = append(out, float64(v.Int()))
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
			out = append(out, float64(v.Uint()))
		default:
			return fmt.Errorf("non-numeric element %s", v.Kind())
		}
		return nil
	}
	if err := walk(reflect.ValueOf(vals)); err != nil {
		return nil, nil, err
	}
	if len(out) != n {
		return nil, nil, fmt.Errorf("ragged array")
	}
	return out, shape, nil
}

func attrLookup(am api.AttributeMap, key string) (float64, bool) {
	if am == nil {
		return 0, false
	}
	v, ok := am.Get(key)
	if !ok {
		return 0, false
	}
	// numeric attributes may arrive scalar or as a one-element slice
	f, _, err := flatten(v)
	if err != nil || len(f) == 0 {
		return 0, false
	}
	return f[0], true
}

func attrFloat(am api.AttributeMap, key string, def float64) float64 {
	if v, ok := attrLookup(am, key); ok {
		return v
	}
	return def
}

func attrString(am api.AttributeMap, key string) string {
	if am == nil {
		return ""
	}
	if v, ok := am.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func attrStringDefault(am api.AttributeMap, key, def string) string {
	if s := attrString(am, key); s != "" {
		return s
	}
	return def
}
