package sdba

import (
	"math"
	"testing"
)

func TestJitterUnderThresh(t *testing.T) {
	vals := []float64{0, 0.01, 0.5, math.NaN(), 2}
	pr := testArray("pr", "mm/d", vals)
	out, err := JitterUnderThresh(pr, "0.1 mm/d", 42)
	if err != nil {
		t.Fatal(err)
	}
	for j, v := range out.Data[0] {
		switch {
		case j == 3:
			if !math.IsNaN(v) {
				t.Error("NaN should pass through")
			}
		case vals[j] >= 0.1:
			if v != vals[j] {
				t.Errorf("wet step %d changed: %v", j, v)
			}
		default:
			if v < 0 || v >= 0.1 {
				t.Errorf("jittered step %d out of (0, thresh): %v", j, v)
			}
		}
	}
	// same seed reproduces
	out2, _ := JitterUnderThresh(pr, "0.1 mm/d", 42)
	if out2.Data[0][0] != out.Data[0][0] {
		t.Error("seeded jitter should be reproducible")
	}
}

func TestJitterOverThresh(t *testing.T) {
	pr := testArray("pr", "mm/d", []float64{5, 200})
	out, err := JitterOverThresh(pr, "100 mm/d", "150 mm/d", 1)
	if err != nil {
		t.Fatal(err)
	}
	if out.Data[0][0] != 5 {
		t.Error("value under threshold changed")
	}
	if out.Data[0][1] <= 100 || out.Data[0][1] >= 150 {
		t.Errorf("jittered extreme: %v", out.Data[0][1])
	}
	if _, err := JitterOverThresh(pr, "100 mm/d", "50 mm/d", 1); err == nil {
		t.Error("inverted bounds accepted")
	}
}

func TestAdaptFreq(t *testing.T) {
	n := 1000
	refv := make([]float64, n)
	simv := make([]float64, n)
	for j := range refv {
		// ref: 20% dry; sim: 50% dry, wet days comparable
		if j%5 == 0 {
			refv[j] = 0
		} else {
			refv[j] = 1 + float64(j%7)
		}
		if j%2 == 0 {
			simv[j] = 0
		} else {
			simv[j] = 1 + float64(j%7)
		}
	}
	ref := testArray("pr", "mm/d", refv)
	sim := testArray("pr", "mm/d", simv)
	res, err := AdaptFreq(ref, sim, "0.5 mm/d", wholeSeries(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.DP0[0][0]-0.6) > 0.02 { // (0.5-0.2)/0.5
		t.Errorf("dP0: %v", res.DP0[0][0])
	}
	dryBefore := fracUnder(simv, 0.5)
	dryAfter := fracUnder(res.Sim.Data[0], 0.5)
	if dryAfter >= dryBefore {
		t.Error("dry-day frequency should drop")
	}
	if math.Abs(dryAfter-0.2) > 0.06 {
		t.Errorf("adapted dry fraction: %v", dryAfter)
	}
	for _, v := range res.Sim.Data[0] {
		if v < 0 {
			t.Fatal("negative precip after adaptation")
		}
	}
}

func TestAdaptFreqNoExcess(t *testing.T) {
	ref := testArray("pr", "mm/d", []float64{0, 0, 1, 2})
	sim := testArray("pr", "mm/d", []float64{0, 1, 2, 3})
	res, err := AdaptFreq(ref, sim, "0.5 mm/d", wholeSeries(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.DP0[0][0] != 0 {
		t.Errorf("sim is drier than ref nowhere, dP0: %v", res.DP0[0][0])
	}
	for j, v := range res.Sim.Data[0] {
		if v != sim.Data[0][j] {
			t.Error("sim should be untouched")
		}
	}
}

func TestStandardizeRoundTrip(t *testing.T) {
	x := []float64{1, 2, 3, 4, math.NaN(), 5}
	z, mu, sd := Standardize(x)
	if math.Abs(mu-3) > 1e-12 {
		t.Errorf("mean: %v", mu)
	}
	back := Unstandardize(z, mu, sd)
	for j, v := range x {
		if math.IsNaN(v) {
			continue
		}
		if math.Abs(back[j]-v) > 1e-12 {
			t.Errorf("round trip at %d: %v", j, back[j])
		}
	}
}

func TestEScore(t *testing.T) {
	a := [][]float64{{1, 2, 3, 4}, {1, 2, 3, 4}}
	same, err := EScore(a, a)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(same) > 1e-12 {
		t.Errorf("identical samples: %v", same)
	}
	b := [][]float64{{11, 12, 13, 14}, {11, 12, 13, 14}}
	far, _ := EScore(a, b)
	if far <= 1 {
		t.Errorf("separated samples should score high: %v", far)
	}
	if _, err := EScore(a, [][]float64{{1, 2}}); err == nil {
		t.Error("mismatched variable sets accepted")
	}
}

func TestReorder(t *testing.T) {
	x := []float64{100, 200, 300}
	ref := []float64{5, 1, 3}
	got := Reorder(x, ref)
	// largest x goes where ref is largest
	want := []float64{300, 100, 200}
	for j := range want {
		if got[j] != want[j] {
			t.Fatalf("reorder: %v", got)
		}
	}
}
