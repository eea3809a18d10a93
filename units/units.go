// Package units handles the CF units this library touches: conversion,
// compatibility checks and threshold parsing. Conversions are affine
// (base = value*scale + offset) within a dimension.
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const daySeconds = 86400.

type unit struct {
	dim           string
	scale, offset float64
}

// registry keys are normalized spellings; lookup also tries a few common CF
// aliases (see normalize).
var registry = map[string]unit{
	// temperature, base K
	"K":    {"temperature", 1, 0},
	"degC": {"temperature", 1, 273.15},
	"degF": {"temperature", 5. / 9., 255.3722222222222},

	// precipitation flux, base kg m-2 s-1 (1 kg m-2 == 1 mm of water)
	"kg m-2 s-1": {"precip_flux", 1, 0},
	"mm/d":       {"precip_flux", 1 / daySeconds, 0},
	"mm/hr":      {"precip_flux", 1 / 3600., 0},

	// length / accumulated amount, base m
	"m":  {"length", 1, 0},
	"cm": {"length", 0.01, 0},
	"mm": {"length", 0.001, 0},

	// wind speed, base m/s
	"m/s":  {"speed", 1, 0},
	"km/h": {"speed", 1 / 3.6, 0},
	"kts":  {"speed", 0.5144444444444445, 0},

	// pressure, base Pa
	"Pa":  {"pressure", 1, 0},
	"hPa": {"pressure", 100, 0},
	"kPa": {"pressure", 1000, 0},

	// dimensionless fraction
	"1": {"fraction", 1, 0},
	"%": {"fraction", 0.01, 0},

	// angle
	"degree": {"angle", 1, 0},

	// specific humidity
	"kg/kg": {"fraction", 1, 0},
	"g/kg":  {"fraction", 0.001, 0},

	// counts of days (indicator outputs)
	"d": {"time", 1, 0},
}

func normalize(u string) string {
	s := strings.TrimSpace(u)
	switch s {
	case "degree_Celsius", "celsius", "C", "deg_C", "°C":
		return "degC"
	case "degree_Fahrenheit", "F", "deg_F", "°F":
		return "degF"
	case "kelvin":
		return "K"
	case "kg/m2/s", "kg/m^2/s", "kg m**-2 s**-1", "mm/s":
		return "kg m-2 s-1"
	case "mm/day", "mm d-1", "mm day-1":
		return "mm/d"
	case "mm/h", "mm hr-1":
		return "mm/hr"
	case "m s-1", "m/sec":
		return "m/s"
	case "percent", "pct":
		return "%"
	case "", "dimensionless":
		return "1"
	case "days", "day":
		return "d"
	case "degrees", "deg":
		return "degree"
	}
	return s
}

func lookup(u string) (unit, error) {
	if r, ok := registry[normalize(u)]; ok {
		return r, nil
	}
	return unit{}, fmt.Errorf("units: unknown unit %q", u)
}

// Dimension returns the dimension name of a unit ("temperature", ...).
func Dimension(u string) (string, error) {
	r, err := lookup(u)
	if err != nil {
		return "", err
	}
	return r.dim, nil
}

// CheckCompatible returns an error unless both units share a dimension.
func CheckCompatible(from, to string) error {
	a, err := lookup(from)
	if err != nil {
		return err
	}
	b, err := lookup(to)
	if err != nil {
		return err
	}
	if a.dim != b.dim {
		return fmt.Errorf("units: %q (%s) not compatible with %q (%s)", from, a.dim, to, b.dim)
	}
	return nil
}

// Convert converts a value between compatible units.
func Convert(v float64, from, to string) (float64, error) {
	a, err := lookup(from)
	if err != nil {
		return math.NaN(), err
	}
	b, err := lookup(to)
	if err != nil {
		return math.NaN(), err
	}
	if a.dim != b.dim {
		return math.NaN(), fmt.Errorf("units: cannot convert %q to %q", from, to)
	}
	return (v*a.scale + a.offset - b.offset) / b.scale, nil
}

// ConvertSlice converts in place, skipping NaNs.
func ConvertSlice(x []float64, from, to string) error {
	if normalize(from) == normalize(to) {
		return nil
	}
	a, err := lookup(from)
	if err != nil {
		return err
	}
	b, err := lookup(to)
	if err != nil {
		return err
	}
	if a.dim != b.dim {
		return fmt.Errorf("units: cannot convert %q to %q", from, to)
	}
	s, o := a.scale/b.scale, (a.offset-b.offset)/b.scale
	for i, v := range x {
		if !math.IsNaN(v) {
			x[i] = v*s + o
		}
	}
	return nil
}

// ParseThreshold splits a quantity string like "25 degC" or "1 mm/d" into a
// magnitude and a unit. A bare number gets the dimensionless unit.
func ParseThreshold(s string) (float64, string, error) {
	f := strings.Fields(strings.TrimSpace(s))
	if len(f) == 0 {
		return math.NaN(), "", fmt.Errorf("units: empty threshold")
	}
	v, err := strconv.ParseFloat(f[0], 64)
	if err != nil {
		return math.NaN(), "", fmt.Errorf("units: bad threshold magnitude %q: %v", f[0], err)
	}
	u := "1"
	if len(f) > 1 {
		u = strings.Join(f[1:], " ")
		if _, err := lookup(u); err != nil {
			return math.NaN(), "", err
		}
	}
	return v, u, nil
}

// ThresholdIn parses a threshold and converts it to the target unit.
func ThresholdIn(s, to string) (float64, error) {
	v, u, err := ParseThreshold(s)
	if err != nil {
		return math.NaN(), err
	}
	return Convert(v, u, to)
}

// FluxToAmount converts a precipitation flux over one day to an amount in mm.
// The daily step assumption is deliberate; all indicator inputs are daily.
func FluxToAmount(v float64, from string) (float64, error) {
	f, err := Convert(v, from, "kg m-2 s-1")
	if err != nil {
		return math.NaN(), err
	}
	return f * daySeconds, nil // kg m-2 == mm
}
