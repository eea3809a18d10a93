package sdba

import (
	"fmt"
	"math"

	"github.com/maseology/objfunc"

	"github.com/GlobalManagement/xclim/series"
	"github.com/GlobalManagement/xclim/units"
)

// Measures compare an adjusted simulation against the reference it was
// trained toward, one score per location. NaN steps in either series are
// dropped pairwise before scoring.

// Bias returns the mean error sim-ref per location, in ref units.
func Bias(ref, sim *series.DataArray) ([]float64, error) {
	return measure(ref, sim, objfunc.Bias)
}

// RelativeBias returns the mean error as a fraction of the reference mean
// per location.
func RelativeBias(ref, sim *series.DataArray) ([]float64, error) {
	return measure(ref, sim, func(obs, sim []float64) float64 {
		mu := series.NanMean(obs)
		if mu == 0 {
			return math.NaN()
		}
		return objfunc.Bias(obs, sim) / mu
	})
}

// RMSE returns the root-mean-square error per location, in ref units.
func RMSE(ref, sim *series.DataArray) ([]float64, error) {
	return measure(ref, sim, objfunc.RMSE)
}

// NSE returns the Nash-Sutcliffe efficiency per location (1 is perfect).
func NSE(ref, sim *series.DataArray) ([]float64, error) {
	return measure(ref, sim, objfunc.NSE)
}

// KGE returns the Kling-Gupta efficiency per location (1 is perfect).
func KGE(ref, sim *series.DataArray) ([]float64, error) {
	return measure(ref, sim, objfunc.KGE)
}

func measure(ref, sim *series.DataArray, fn func(obs, sim []float64) float64) ([]float64, error) {
	if err := ref.SameShape(sim); err != nil {
		return nil, err
	}
	if err := units.CheckCompatible(ref.Units, sim.Units); err != nil {
		return nil, err
	}
	out := make([]float64, ref.Nloc())
	err := series.PmapErr(ref.Nloc(), 0, func(i int) error {
		var o, s []float64
		for j, rv := range ref.Data[i] {
			sv := sim.Data[i][j]
			if math.IsNaN(rv) || math.IsNaN(sv) {
				continue
			}
			c, cerr := units.Convert(sv, sim.Units, ref.Units)
			if cerr != nil {
				return cerr
			}
			o = append(o, rv)
			s = append(s, c)
		}
		if len(o) == 0 {
			return fmt.Errorf("sdba: no overlapping valid steps at location %d", i)
		}
		out[i] = fn(o, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
