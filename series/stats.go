package series

import "math"

// NaN-aware reduction kernels shared by the indicator and adjustment code.

func NanSum(x []float64) float64 {
	s, any := 0., false
	for _, v := range x {
		if !math.IsNaN(v) {
			s += v
			any = true
		}
	}
	if !any {
		return math.NaN()
	}
	return s
}

func NanMean(x []float64) float64 {
	s, n := 0., 0
	for _, v := range x {
		if !math.IsNaN(v) {
			s += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return s / float64(n)
}

func NanMin(x []float64) float64 {
	mn, any := math.Inf(1), false
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		any = true
		if v < mn {
			mn = v
		}
	}
	if !any {
		return math.NaN()
	}
	return mn
}

func NanMax(x []float64) float64 {
	mx, any := math.Inf(-1), false
	for _, v := range x {
		if !math.IsNaN(v) {
			any = true
			if v > mx {
				mx = v
			}
		}
	}
	if !any {
		return math.NaN()
	}
	return mx
}

func NanStd(x []float64) float64 {
	m := NanMean(x)
	if math.IsNaN(m) {
		return math.NaN()
	}
	s, n := 0., 0
	for _, v := range x {
		if !math.IsNaN(v) {
			d := v - m
			s += d * d
			n++
		}
	}
	if n < 2 {
		return 0.
	}
	return math.Sqrt(s / float64(n-1))
}

// CountValid returns the number of non-NaN values.
func CountValid(x []float64) int {
	n := 0
	for _, v := range x {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Dropna returns the non-NaN values of x (new slice).
func Dropna(x []float64) []float64 {
	o := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			o = append(o, v)
		}
	}
	return o
}
