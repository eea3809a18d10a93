package sdba

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/GlobalManagement/xclim/series"
)

// RandRotMatrix draws a random orthogonal rotation, uniform over the rotation
// group: QR of a standard-normal matrix with the R diagonal signs folded into
// Q.
func RandRotMatrix(rng *rand.Rand, n int) *mat.Dense {
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, rng.NormFloat64())
		}
	}
	var qr mat.QR
	qr.Factorize(a)
	var q, r mat.Dense
	qr.QTo(&q)
	qr.RTo(&r)
	for j := 0; j < n; j++ {
		if r.At(j, j) < 0 {
			for i := 0; i < n; i++ {
				q.Set(i, j, -q.At(i, j))
			}
		}
	}
	return &q
}

// NpdfOptions tunes the N-dimensional pdf transform.
type NpdfOptions struct {
	NIter      int     // rotations; 20 when zero
	NQuantiles int     // quantile nodes per univariate correction; 50 when zero
	Seed       int64   // rotation stream seed
	Tol        float64 // stop a location early when the score's relative change falls below this
}

// NpdfResult holds the transformed series and the per-iteration energy
// scores between the reference and the corrected historical sample.
type NpdfResult struct {
	Hist    []*series.DataArray
	Sim     []*series.DataArray
	Escores [][]float64 // [loc][iteration]
}

// NpdfTransform matches the joint distribution of several simulated variables
// to the reference: each iteration rotates the standardized variable space by
// a random orthogonal matrix, quantile-maps every rotated coordinate of hist
// and sim toward ref, and rotates back. The energy score between ref and the
// corrected hist tracks convergence.
//
// Output is returned in standardized coordinates scaled back by the reference
// moments; callers after absolute values typically restore them by reordering
// a univariately adjusted series against this output (see ReorderArray).
func NpdfTransform(ref, hist, sim []*series.DataArray, opt NpdfOptions) (*NpdfResult, error) {
	nvar := len(ref)
	if nvar == 0 || len(hist) != nvar || len(sim) != nvar {
		return nil, fmt.Errorf("sdba: npdf needs matching non-empty variable sets")
	}
	nloc := ref[0].Nloc()
	for k := 1; k < nvar; k++ {
		if ref[k].Nloc() != nloc || hist[k].Nloc() != nloc || sim[k].Nloc() != nloc {
			return nil, fmt.Errorf("sdba: npdf location counts differ across variables")
		}
	}
	if opt.NIter <= 0 {
		opt.NIter = 20
	}
	if opt.NQuantiles <= 0 {
		opt.NQuantiles = 50
	}

	res := &NpdfResult{
		Hist:    make([]*series.DataArray, nvar),
		Sim:     make([]*series.DataArray, nvar),
		Escores: make([][]float64, nloc),
	}
	for k := range res.Hist {
		res.Hist[k] = hist[k].Copy()
		res.Sim[k] = sim[k].Copy()
	}

	// rotations are shared across locations so every cell sees the same
	// sequence of axes
	rng := newRNG(opt.Seed)
	rots := make([]*mat.Dense, opt.NIter)
	for it := range rots {
		rots[it] = RandRotMatrix(rng, nvar)
	}
	qs := Nodes(opt.NQuantiles)

	series.Pmap(nloc, 0, func(i int) {
		nr, nh, ns := ref[0].NT(), hist[0].NT(), sim[0].NT()
		r := make([][]float64, nvar)
		h := make([][]float64, nvar)
		s := make([][]float64, nvar)
		muR := make([]float64, nvar)
		sdR := make([]float64, nvar)
		for k := 0; k < nvar; k++ {
			r[k], muR[k], sdR[k] = Standardize(ref[k].Data[i])
			h[k], _, _ = Standardize(hist[k].Data[i])
			s[k], _, _ = Standardize(sim[k].Data[i])
		}
		hr := alloc2(nvar, nh)
		sr := alloc2(nvar, ns)
		rr := alloc2(nvar, nr)
		prev := math.Inf(1)
		for it := 0; it < opt.NIter; it++ {
			rot := rots[it]
			rotate(rr, rot, r, false)
			rotate(hr, rot, h, false)
			rotate(sr, rot, s, false)
			for k := 0; k < nvar; k++ {
				qdmSlice(rr[k], hr[k], sr[k], qs)
			}
			rotate(h, rot, hr, true)
			rotate(s, rot, sr, true)
			e, _ := EScore(r, h)
			res.Escores[i] = append(res.Escores[i], e)
			if opt.Tol > 0 && prev > 0 && math.Abs(prev-e) <= opt.Tol*prev {
				break
			}
			prev = e
		}
		for k := 0; k < nvar; k++ {
			copy(res.Hist[k].Data[i], Unstandardize(h[k], muR[k], sdR[k]))
			copy(res.Sim[k].Data[i], Unstandardize(s[k], muR[k], sdR[k]))
		}
	})
	return res, nil
}

func alloc2(n, m int) [][]float64 {
	o := make([][]float64, n)
	for k := range o {
		o[k] = make([]float64, m)
	}
	return o
}

// rotate sets dst = M x (or M' x when trans), x laid out [variable][sample].
func rotate(dst [][]float64, m *mat.Dense, x [][]float64, trans bool) {
	nvar := len(x)
	ns := len(x[0])
	for j := 0; j < ns; j++ {
		for a := 0; a < nvar; a++ {
			v := 0.
			for b := 0; b < nvar; b++ {
				if trans {
					v += m.At(b, a) * x[b][j]
				} else {
					v += m.At(a, b) * x[b][j]
				}
			}
			dst[a][j] = v
		}
	}
}

// qdmSlice applies additive quantile-delta mapping in place: hist and sim are
// corrected toward ref along the whole series at once.
func qdmSlice(ref, hist, sim []float64, qs []float64) {
	rq := Empirical(ref, qs)
	hq := Empirical(hist, qs)
	af := make([]float64, len(qs))
	for q := range qs {
		af[q] = rq[q] - hq[q]
	}
	for _, x := range [][]float64{hist, sim} {
		rk := Rank(x)
		for j, v := range x {
			x[j] = v + Interp(qs, af, rk[j])
		}
	}
}
