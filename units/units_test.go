package units

import (
	"math"
	"testing"
)

func almost(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestConvertTemperature(t *testing.T) {
	tests := []struct {
		v        float64
		from, to string
		want     float64
	}{
		{0, "degC", "K", 273.15},
		{300, "K", "degC", 26.85},
		{32, "degF", "degC", 0},
		{212, "degF", "K", 373.15},
	}
	for _, tc := range tests {
		got, err := Convert(tc.v, tc.from, tc.to)
		if err != nil {
			t.Fatalf("Convert(%v, %q, %q): %v", tc.v, tc.from, tc.to, err)
		}
		if !almost(got, tc.want, 1e-9) {
			t.Errorf("Convert(%v, %q, %q) = %v, want %v", tc.v, tc.from, tc.to, got, tc.want)
		}
	}
}

func TestConvertPrecip(t *testing.T) {
	got, err := Convert(1, "mm/d", "kg m-2 s-1")
	if err != nil {
		t.Fatal(err)
	}
	if !almost(got, 1./86400., 1e-12) {
		t.Errorf("1 mm/d = %v kg m-2 s-1", got)
	}
	amt, err := FluxToAmount(1./86400., "kg m-2 s-1")
	if err != nil {
		t.Fatal(err)
	}
	if !almost(amt, 1, 1e-9) {
		t.Errorf("daily amount of 1 mm/d flux: %v mm", amt)
	}
}

func TestAliases(t *testing.T) {
	got, err := Convert(20, "degree_Celsius", "K")
	if err != nil {
		t.Fatal(err)
	}
	if !almost(got, 293.15, 1e-9) {
		t.Errorf("alias degC: %v", got)
	}
	if _, err := Convert(1, "kg/m2/s", "mm/day"); err != nil {
		t.Errorf("flux aliases should convert: %v", err)
	}
}

func TestCheckCompatible(t *testing.T) {
	if err := CheckCompatible("degC", "K"); err != nil {
		t.Errorf("degC ~ K: %v", err)
	}
	if err := CheckCompatible("degC", "mm/d"); err == nil {
		t.Error("degC vs mm/d should not be compatible")
	}
	if err := CheckCompatible("furlongs", "K"); err == nil {
		t.Error("unknown unit should error")
	}
}

func TestConvertSliceSkipsNaN(t *testing.T) {
	x := []float64{0, math.NaN(), 100}
	if err := ConvertSlice(x, "degC", "K"); err != nil {
		t.Fatal(err)
	}
	if !almost(x[0], 273.15, 1e-9) || !almost(x[2], 373.15, 1e-9) {
		t.Errorf("converted: %v", x)
	}
	if !math.IsNaN(x[1]) {
		t.Error("NaN should stay NaN")
	}
}

func TestParseThreshold(t *testing.T) {
	v, u, err := ParseThreshold("25 degC")
	if err != nil {
		t.Fatal(err)
	}
	if v != 25 || u != "degC" {
		t.Errorf("got %v %q", v, u)
	}
	v, u, err = ParseThreshold("0.5")
	if err != nil {
		t.Fatal(err)
	}
	if v != 0.5 || u != "1" {
		t.Errorf("bare number: %v %q", v, u)
	}
	if _, _, err := ParseThreshold("abc degC"); err == nil {
		t.Error("bad magnitude should fail")
	}
	if _, _, err := ParseThreshold("5 parsecs"); err == nil {
		t.Error("unknown unit should fail")
	}
}

func TestThresholdIn(t *testing.T) {
	v, err := ThresholdIn("1 mm/d", "kg m-2 s-1")
	if err != nil {
		t.Fatal(err)
	}
	if !almost(v, 1./86400., 1e-12) {
		t.Errorf("got %v", v)
	}
}
