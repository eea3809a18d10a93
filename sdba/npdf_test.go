package sdba

import (
	"math"
	"testing"

	"github.com/GlobalManagement/xclim/series"
)

func TestRandRotMatrixOrthogonal(t *testing.T) {
	rng := newRNG(13)
	for _, n := range []int{2, 3, 5} {
		m := RandRotMatrix(rng, n)
		for a := 0; a < n; a++ {
			for b := 0; b < n; b++ {
				dot := 0.
				for k := 0; k < n; k++ {
					dot += m.At(k, a) * m.At(k, b)
				}
				want := 0.
				if a == b {
					want = 1
				}
				if math.Abs(dot-want) > 1e-10 {
					t.Fatalf("n=%d: column dot (%d,%d) = %v", n, a, b, dot)
				}
			}
		}
	}
}

func TestNpdfTransformReducesEscore(t *testing.T) {
	n := 400
	// two correlated reference variables; hist carries additive biases
	refA := make([]float64, n)
	refB := make([]float64, n)
	histA := make([]float64, n)
	histB := make([]float64, n)
	for j := range refA {
		u := math.Sin(float64(j) * 1.7)
		v := math.Cos(float64(j) * 0.9)
		refA[j] = 10 + 2*u + v
		refB[j] = 5 + u - v
		histA[j] = 13 + 2.5*u + 0.5*v
		histB[j] = 3 + 0.5*u - 1.5*v
	}
	ref := []*series.DataArray{testArray("a", "K", refA), testArray("b", "K", refB)}
	hist := []*series.DataArray{testArray("a", "K", histA), testArray("b", "K", histB)}
	sim := []*series.DataArray{testArray("a", "K", histA), testArray("b", "K", histB)}

	res, err := NpdfTransform(ref, hist, sim, NpdfOptions{NIter: 10, NQuantiles: 30, Seed: 5})
	if err != nil {
		t.Fatal(err)
	}
	es := res.Escores[0]
	if es[len(es)-1] >= es[0] {
		t.Errorf("energy score should fall: first %v last %v", es[0], es[len(es)-1])
	}
	// corrected hist should track the reference variable means
	m0 := series.NanMean(res.Hist[0].Data[0])
	if math.Abs(m0-10) > 0.5 {
		t.Errorf("corrected mean of variable a: %v", m0)
	}
}

func TestNpdfValidation(t *testing.T) {
	a := []*series.DataArray{testArray("a", "K", ramp(10, 0, 9))}
	if _, err := NpdfTransform(a, nil, nil, NpdfOptions{}); err == nil {
		t.Error("mismatched variable sets accepted")
	}
}
