package sdba

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Loess smooths y over x with locally weighted linear regression: tricube
// distance weights over the f*n nearest points, with niter bisquare
// robustifying passes downweighting outliers. x must be non-decreasing.
// NaN observations are skipped in the fit; the smoothed line is evaluated at
// every x.
func Loess(x, y []float64, f float64, niter int) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("sdba: loess lengths differ: %d vs %d", len(x), len(y))
	}
	var xv, yv []float64
	for j, v := range y {
		if !math.IsNaN(v) {
			xv = append(xv, x[j])
			yv = append(yv, v)
		}
	}
	n := len(xv)
	if n < 2 {
		return nil, fmt.Errorf("sdba: loess needs at least two valid points, got %d", n)
	}
	r := int(math.Ceil(f * float64(n)))
	if r < 2 {
		r = 2
	}
	if r > n {
		r = n
	}
	rob := make([]float64, n)
	for k := range rob {
		rob[k] = 1
	}
	fitted := make([]float64, n)
	for it := 0; it <= niter; it++ {
		for k := 0; k < n; k++ {
			fitted[k] = loessPoint(xv, yv, rob, xv[k], r)
		}
		if it == niter {
			break
		}
		// bisquare weights from the median absolute residual
		res := make([]float64, n)
		for k := range res {
			res[k] = math.Abs(yv[k] - fitted[k])
		}
		sorted := append([]float64(nil), res...)
		sort.Float64s(sorted)
		s := 6 * stat.Quantile(0.5, stat.LinInterp, sorted, nil)
		for k := range rob {
			if s <= 0 {
				rob[k] = 1
				continue
			}
			u := res[k] / s
			if u >= 1 {
				rob[k] = 0
			} else {
				rob[k] = (1 - u*u) * (1 - u*u)
			}
		}
	}
	// evaluate on the full axis, including steps whose observation was NaN
	out := make([]float64, len(x))
	for j := range x {
		out[j] = loessPoint(xv, yv, rob, x[j], r)
	}
	return out, nil
}

// loessPoint fits the weighted local line around x0 and evaluates it there.
func loessPoint(xv, yv, rob []float64, x0 float64, r int) float64 {
	n := len(xv)
	// nearest-r window over sorted xv
	lo := sort.SearchFloat64s(xv, x0)
	hi := lo
	for hi-lo < r {
		if lo == 0 {
			hi = r
			break
		}
		if hi == n {
			lo = n - r
			break
		}
		if x0-xv[lo-1] <= xv[hi]-x0 {
			lo--
		} else {
			hi++
		}
	}
	h := math.Max(x0-xv[lo], xv[hi-1]-x0)
	w := make([]float64, hi-lo)
	sw := 0.
	for k := lo; k < hi; k++ {
		d := 0.
		if h > 0 {
			d = math.Abs(xv[k]-x0) / h
		}
		w[k-lo] = tricube(d) * rob[k]
		sw += w[k-lo]
	}
	if sw == 0 {
		return math.NaN()
	}
	alpha, beta := stat.LinearRegression(xv[lo:hi], yv[lo:hi], w, false)
	if math.IsNaN(beta) {
		// degenerate window, fall back to the weighted mean
		return stat.Mean(yv[lo:hi], w)
	}
	return alpha + beta*x0
}

func tricube(d float64) float64 {
	if d >= 1 {
		return 0
	}
	c := 1 - d*d*d
	return c * c * c
}
