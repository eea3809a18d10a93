package sdba

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/GlobalManagement/xclim/cal"
	"github.com/GlobalManagement/xclim/series"
)

// Detrender fits a long-term trend to a series; the returned Trend removes
// and restores it. The fitted trend is additive or multiplicative per Kind.
type Detrender interface {
	Fit(ax *cal.Axis, y []float64) (Trend, error)
}

// Trend is a fitted trend line over a fixed axis.
type Trend interface {
	Detrend(y []float64) []float64
	Retrend(y []float64) []float64
	Line() []float64
}

type trendLine struct {
	kind Kind
	line []float64
}

func (t trendLine) Line() []float64 { return t.line }

func (t trendLine) Detrend(y []float64) []float64 {
	out := make([]float64, len(y))
	for j, v := range y {
		out[j] = t.kind.invert(v, t.line[j])
	}
	return out
}

func (t trendLine) Retrend(y []float64) []float64 {
	out := make([]float64, len(y))
	for j, v := range y {
		out[j] = t.kind.apply(v, t.line[j])
	}
	return out
}

// NoDetrend leaves the series untouched.
type NoDetrend struct{ Kind Kind }

func (d NoDetrend) Fit(ax *cal.Axis, y []float64) (Trend, error) {
	line := make([]float64, len(y))
	fill := 0.
	if d.Kind == Multiplicative {
		fill = 1
	}
	for j := range line {
		line[j] = fill
	}
	return trendLine{d.Kind, line}, nil
}

// MeanDetrend uses the series mean as a constant trend.
type MeanDetrend struct{ Kind Kind }

func (d MeanDetrend) Fit(ax *cal.Axis, y []float64) (Trend, error) {
	mu := series.NanMean(y)
	line := make([]float64, len(y))
	for j := range line {
		line[j] = mu
	}
	return trendLine{d.Kind, line}, nil
}

// PolyDetrend fits a least-squares polynomial of the given degree over the
// time index.
type PolyDetrend struct {
	Degree int
	Kind   Kind
}

func (d PolyDetrend) Fit(ax *cal.Axis, y []float64) (Trend, error) {
	if d.Degree < 0 {
		return nil, fmt.Errorf("sdba: negative polynomial degree")
	}
	n := len(y)
	var xs, ys []float64
	for j, v := range y {
		if !math.IsNaN(v) {
			xs = append(xs, scaleIndex(j, n))
			ys = append(ys, v)
		}
	}
	if len(xs) < d.Degree+1 {
		return nil, fmt.Errorf("sdba: %d valid points cannot support degree %d", len(xs), d.Degree)
	}
	coef, err := polyfit(xs, ys, d.Degree)
	if err != nil {
		return nil, err
	}
	line := make([]float64, n)
	for j := range line {
		line[j] = polyval(coef, scaleIndex(j, n))
	}
	return trendLine{d.Kind, line}, nil
}

// scaleIndex maps step j of an n-step axis into [-1, 1] to keep the
// Vandermonde system conditioned at high degrees.
func scaleIndex(j, n int) float64 {
	if n < 2 {
		return 0
	}
	return 2*float64(j)/float64(n-1) - 1
}

// polyfit solves the least-squares Vandermonde system by QR.
func polyfit(x, y []float64, degree int) ([]float64, error) {
	a := mat.NewDense(len(x), degree+1, nil)
	for i, v := range x {
		p := 1.
		for k := 0; k <= degree; k++ {
			a.Set(i, k, p)
			p *= v
		}
	}
	b := mat.NewDense(len(y), 1, y)
	var qr mat.QR
	qr.Factorize(a)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, b); err != nil {
		return nil, fmt.Errorf("sdba: polynomial fit: %w", err)
	}
	coef := make([]float64, degree+1)
	for k := range coef {
		coef[k] = beta.At(k, 0)
	}
	return coef, nil
}

func polyval(coef []float64, x float64) float64 {
	v := 0.
	for k := len(coef) - 1; k >= 0; k-- {
		v = v*x + coef[k]
	}
	return v
}

// LoessDetrend fits a locally weighted regression through the series.
// F is the fraction of the series in each local window; Niter the number of
// robustifying iterations.
type LoessDetrend struct {
	F     float64
	Niter int
	Kind  Kind
}

func (d LoessDetrend) Fit(ax *cal.Axis, y []float64) (Trend, error) {
	f := d.F
	if f <= 0 || f > 1 {
		return nil, fmt.Errorf("sdba: loess span must be in (0,1], got %v", f)
	}
	x := make([]float64, len(y))
	for j := range x {
		x[j] = float64(j)
	}
	line, err := Loess(x, y, f, d.Niter)
	if err != nil {
		return nil, err
	}
	return trendLine{d.Kind, line}, nil
}
