package sdba

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/maseology/mmaths"
	mrg63k3a "github.com/maseology/goRNG/MRG63k3a"

	"github.com/GlobalManagement/xclim/series"
	"github.com/GlobalManagement/xclim/units"
)

// newRNG builds the stream used by the stochastic pre-processors. A fixed
// seed keeps adjusted output reproducible.
func newRNG(seed int64) *rand.Rand {
	rng := rand.New(mrg63k3a.New())
	rng.Seed(seed)
	return rng
}

// JitterUnderThresh replaces values strictly under thresh with uniform noise
// in (0, thresh), breaking the ties that a dry-day constant introduces into
// empirical quantiles. NaN passes through.
func JitterUnderThresh(da *series.DataArray, thresh string, seed int64) (*series.DataArray, error) {
	tv, err := units.ThresholdIn(thresh, da.Units)
	if err != nil {
		return nil, err
	}
	rng := newRNG(seed)
	out := da.Copy()
	for i := range out.Data {
		for j, v := range out.Data[i] {
			if !math.IsNaN(v) && v < tv {
				out.Data[i][j] = mmaths.LinearTransform(0, tv, rng.Float64())
			}
		}
	}
	return out, nil
}

// JitterOverThresh replaces values strictly over thresh with uniform noise in
// (thresh, upper), taming unphysical extremes before multiplicative training.
func JitterOverThresh(da *series.DataArray, thresh, upper string, seed int64) (*series.DataArray, error) {
	tv, err := units.ThresholdIn(thresh, da.Units)
	if err != nil {
		return nil, err
	}
	uv, err := units.ThresholdIn(upper, da.Units)
	if err != nil {
		return nil, err
	}
	if uv <= tv {
		return nil, fmt.Errorf("sdba: jitter upper bound %v not above threshold %v", uv, tv)
	}
	rng := newRNG(seed)
	out := da.Copy()
	for i := range out.Data {
		for j, v := range out.Data[i] {
			if !math.IsNaN(v) && v > tv {
				out.Data[i][j] = mmaths.LinearTransform(tv, uv, rng.Float64())
			}
		}
	}
	return out, nil
}

// AdaptFreqResult carries the frequency-adapted series and its diagnostics.
type AdaptFreqResult struct {
	Sim *series.DataArray
	DP0 [][]float64 // [loc][group] fraction of dry sim days in excess of ref
	Pth [][]float64 // [loc][group] sim value below which days were adapted
}

// AdaptFreq corrects the dry-day frequency of sim to match ref before
// multiplicative quantile mapping: where sim has more values under thresh
// than ref, the surplus dry days are redrawn uniformly in (thresh, pth),
// pth being the reference quantile at sim's dry-day probability.
func AdaptFreq(ref, sim *series.DataArray, thresh string, g Grouper, seed int64) (*AdaptFreqResult, error) {
	if ref.Nloc() != sim.Nloc() {
		return nil, fmt.Errorf("sdba: ref has %d locations, sim has %d", ref.Nloc(), sim.Nloc())
	}
	tv, err := units.ThresholdIn(thresh, ref.Units)
	if err != nil {
		return nil, err
	}
	s, err := simInRefUnits(sim, ref.Units)
	if err != nil {
		return nil, err
	}
	rng := newRNG(seed)
	ridx := g.Indices(ref.Axis)
	sidx := g.Indices(sim.Axis)
	lab := g.Labels(sim.Axis)
	res := &AdaptFreqResult{
		Sim: s,
		DP0: make([][]float64, sim.Nloc()),
		Pth: make([][]float64, sim.Nloc()),
	}
	// sequential over locations: the draws must come from one stream
	for i := 0; i < sim.Nloc(); i++ {
		ng := len(sidx)
		res.DP0[i] = make([]float64, ng)
		res.Pth[i] = make([]float64, ng)
		for gk := 0; gk < ng; gk++ {
			rp := gather(ref.Data[i], ridx[gk])
			sp := gather(s.Data[i], sidx[gk])
			p0r := fracUnder(rp, tv)
			p0s := fracUnder(sp, tv)
			if p0s <= p0r || p0s == 0 {
				res.DP0[i][gk] = 0
				res.Pth[i][gk] = math.NaN()
				continue
			}
			dp0 := (p0s - p0r) / p0s
			pth := Empirical(rp, []float64{p0s})[0]
			res.DP0[i][gk] = dp0
			res.Pth[i][gk] = pth
			if math.IsNaN(pth) || pth <= tv {
				continue
			}
			for _, j := range sidx[gk] {
				if lab[j] != gk {
					continue // window neighbours belong to their own group
				}
				v := s.Data[i][j]
				if !math.IsNaN(v) && v < tv && rng.Float64() < dp0 {
					s.Data[i][j] = mmaths.LinearTransform(tv, pth, rng.Float64())
				}
			}
		}
	}
	return res, nil
}

func fracUnder(x []float64, thresh float64) float64 {
	n, u := 0, 0
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		n++
		if v < thresh {
			u++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(u) / float64(n)
}

// Standardize centers and scales x to zero mean and unit variance, returning
// the moments for Unstandardize. NaNs are skipped.
func Standardize(x []float64) (z []float64, mu, sigma float64) {
	mu = series.NanMean(x)
	sigma = series.NanStd(x)
	z = make([]float64, len(x))
	for j, v := range x {
		if sigma == 0 {
			z[j] = v - mu
		} else {
			z[j] = (v - mu) / sigma
		}
	}
	return z, mu, sigma
}

// Unstandardize restores the moments removed by Standardize.
func Unstandardize(z []float64, mu, sigma float64) []float64 {
	x := make([]float64, len(z))
	for j, v := range z {
		if sigma == 0 {
			x[j] = v + mu
		} else {
			x[j] = v*sigma + mu
		}
	}
	return x
}

// EScore computes the Szekely-Rizzo energy distance between two multivariate
// samples laid out as [variable][sample]. Zero means identical distributions;
// it grows with their separation.
func EScore(x, y [][]float64) (float64, error) {
	if len(x) == 0 || len(x) != len(y) {
		return 0, fmt.Errorf("sdba: escore needs matching non-empty variable sets")
	}
	n, m := len(x[0]), len(y[0])
	for _, v := range x {
		if len(v) != n {
			return 0, fmt.Errorf("sdba: ragged escore sample")
		}
	}
	for _, v := range y {
		if len(v) != m {
			return 0, fmt.Errorf("sdba: ragged escore sample")
		}
	}
	sxy := meanPairDist(x, y)
	sxx := meanPairDist(x, x)
	syy := meanPairDist(y, y)
	w := float64(n) * float64(m) / float64(n+m)
	return w * (2*sxy - sxx - syy) / 2, nil
}

func meanPairDist(x, y [][]float64) float64 {
	n, m := len(x[0]), len(y[0])
	s := 0.
	for a := 0; a < n; a++ {
		for b := 0; b < m; b++ {
			d := 0.
			for k := range x {
				dv := x[k][a] - y[k][b]
				d += dv * dv
			}
			s += math.Sqrt(d)
		}
	}
	return s / float64(n*m)
}

// Reorder rearranges the values of x so that their ranks follow those of ref
// (the Schaake shuffle): sorted x values land at the time steps where ref has
// the same rank.
func Reorder(x, ref []float64) []float64 {
	if len(x) != len(ref) {
		panic("sdba: reorder length mismatch")
	}
	ord := make([]int, len(ref))
	for j := range ord {
		ord[j] = j
	}
	sort.Slice(ord, func(a, b int) bool { return ref[ord[a]] < ref[ord[b]] })
	xs := append([]float64(nil), x...)
	sort.Float64s(xs)
	out := make([]float64, len(x))
	for r, j := range ord {
		out[j] = xs[r]
	}
	return out
}

// ReorderArray applies Reorder per location.
func ReorderArray(x, ref *series.DataArray) (*series.DataArray, error) {
	if err := x.SameShape(ref); err != nil {
		return nil, err
	}
	out := x.Copy()
	series.Pmap(x.Nloc(), 0, func(i int) {
		copy(out.Data[i], Reorder(x.Data[i], ref.Data[i]))
	})
	return out, nil
}
