package sdba

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/GlobalManagement/xclim/series"
)

// Nodes returns n quantile nodes equally spaced inside (0,1), dodging the
// endpoints so that empirical estimation stays defined.
func Nodes(n int) []float64 {
	q := make([]float64, n)
	for i := range q {
		q[i] = (float64(i) + 0.5) / float64(n)
	}
	return q
}

// Empirical estimates quantiles q of x with linear interpolation, ignoring
// NaNs. An all-NaN sample yields NaNs.
func Empirical(x []float64, q []float64) []float64 {
	s := series.Dropna(x)
	out := make([]float64, len(q))
	if len(s) == 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	sort.Float64s(s)
	for i, p := range q {
		out[i] = stat.Quantile(p, stat.LinInterp, s, nil)
	}
	return out
}

// Interp evaluates the piecewise-linear function through (xq, yq) at x, with
// constant extrapolation outside the training range. xq must be
// non-decreasing; NaN passes through.
func Interp(xq, yq []float64, x float64) float64 {
	if math.IsNaN(x) || len(xq) == 0 {
		return math.NaN()
	}
	// an untrained curve (empty group pool) is all NaN
	if math.IsNaN(xq[0]) || math.IsNaN(xq[len(xq)-1]) {
		return math.NaN()
	}
	if x <= xq[0] {
		return yq[0]
	}
	n := len(xq)
	if x >= xq[n-1] {
		return yq[n-1]
	}
	i := sort.SearchFloat64s(xq, x) // first index with xq[i] >= x
	if xq[i] == x {
		return yq[i]
	}
	x0, x1 := xq[i-1], xq[i]
	if x1 == x0 {
		return yq[i]
	}
	f := (x - x0) / (x1 - x0)
	return yq[i-1]*(1-f) + yq[i]*f
}

// NormalScores maps x onto standard-normal quantiles through its empirical
// ranks, a distribution-free standardization for heavy-tailed variables.
func NormalScores(x []float64) []float64 {
	out := Rank(x)
	for i, p := range out {
		if !math.IsNaN(p) {
			out[i] = math.Sqrt2 * math.Erfinv(2*p-1)
		}
	}
	return out
}

// Rank returns the empirical (mid-rank, NaN-aware) cumulative probability of
// every value of x within x itself, in (0,1). NaNs rank as NaN.
func Rank(x []float64) []float64 {
	type iv struct {
		i int
		v float64
	}
	s := make([]iv, 0, len(x))
	for i, v := range x {
		if !math.IsNaN(v) {
			s = append(s, iv{i, v})
		}
	}
	out := make([]float64, len(x))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(s) == 0 {
		return out
	}
	sort.Slice(s, func(a, b int) bool { return s[a].v < s[b].v })
	n := float64(len(s))
	for r := 0; r < len(s); {
		r2 := r
		for r2+1 < len(s) && s[r2+1].v == s[r].v {
			r2++
		}
		p := (float64(r+r2)/2 + 0.5) / n // mid-rank of ties
		for k := r; k <= r2; k++ {
			out[s[k].i] = p
		}
		r = r2 + 1
	}
	return out
}
