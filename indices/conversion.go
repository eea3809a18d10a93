package indices

import (
	"math"

	"github.com/GlobalManagement/xclim/series"
	"github.com/GlobalManagement/xclim/units"
)

// TasMidpoint estimates daily mean temperature as the midpoint of tasmin and
// tasmax, in tasmax's units.
func TasMidpoint(tasmin, tasmax *series.DataArray) (*series.DataArray, error) {
	if err := checkTemp(tasmin); err != nil {
		return nil, err
	}
	if err := checkTemp(tasmax); err != nil {
		return nil, err
	}
	if err := tasmax.SameShape(tasmin); err != nil {
		return nil, err
	}
	fac, err := units.Convert(1, tasmin.Units, tasmax.Units)
	if err != nil {
		return nil, err
	}
	off, err := units.Convert(0, tasmin.Units, tasmax.Units)
	if err != nil {
		return nil, err
	}
	out := tasmax.Like("tas", tasmax.Units)
	series.Pmap(tasmax.Nloc(), 0, func(i int) {
		for j := range tasmax.Data[i] {
			out.Data[i][j] = (tasmax.Data[i][j] + tasmin.Data[i][j]*fac + off) / 2
		}
	})
	return out, nil
}

// WindSpeedFromComponents converts eastward/northward components to speed
// and meteorological direction (degrees, direction the wind blows from).
// Speeds below calmThresh get direction 0 by convention.
func WindSpeedFromComponents(uas, vas *series.DataArray, calmThresh string) (*series.DataArray, *series.DataArray, error) {
	if err := units.CheckCompatible(uas.Units, "m/s"); err != nil {
		return nil, nil, err
	}
	if err := uas.SameShape(vas); err != nil {
		return nil, nil, err
	}
	calm, err := units.ThresholdIn(calmThresh, uas.Units)
	if err != nil {
		return nil, nil, err
	}
	wind := uas.Like("sfcWind", uas.Units)
	dir := uas.Like("sfcWindfromdir", "degree")
	series.Pmap(uas.Nloc(), 0, func(i int) {
		for j := range uas.Data[i] {
			u, v := uas.Data[i][j], vas.Data[i][j]
			if math.IsNaN(u) || math.IsNaN(v) {
				wind.Data[i][j], dir.Data[i][j] = math.NaN(), math.NaN()
				continue
			}
			w := math.Hypot(u, v)
			wind.Data[i][j] = w
			if w < calm {
				dir.Data[i][j] = 0
			} else {
				d := math.Mod(180/math.Pi*math.Atan2(u, v)+180, 360)
				if d == 0 {
					d = 360 // northerlies are 360, 0 is reserved for calm
				}
				dir.Data[i][j] = d
			}
		}
	})
	return wind, dir, nil
}

// WindComponentsFromSpeed converts speed and meteorological direction back
// to eastward/northward components.
func WindComponentsFromSpeed(sfcWind, fromdir *series.DataArray) (*series.DataArray, *series.DataArray, error) {
	if err := units.CheckCompatible(sfcWind.Units, "m/s"); err != nil {
		return nil, nil, err
	}
	if err := sfcWind.SameShape(fromdir); err != nil {
		return nil, nil, err
	}
	uas := sfcWind.Like("uas", sfcWind.Units)
	vas := sfcWind.Like("vas", sfcWind.Units)
	series.Pmap(sfcWind.Nloc(), 0, func(i int) {
		for j := range sfcWind.Data[i] {
			w, d := sfcWind.Data[i][j], fromdir.Data[i][j]
			if math.IsNaN(w) || math.IsNaN(d) {
				uas.Data[i][j], vas.Data[i][j] = math.NaN(), math.NaN()
				continue
			}
			rad := (d - 180) * math.Pi / 180
			uas.Data[i][j] = w * math.Sin(rad)
			vas.Data[i][j] = w * math.Cos(rad)
		}
	})
	return uas, vas, nil
}

// esat returns saturation vapour pressure in Pa (Magnus form), switching to
// the ice branch below 0 degC.
func esat(tK float64) float64 {
	tc := tK - 273.15
	if tc >= 0 {
		return 610.94 * math.Exp(17.625*tc/(tc+243.04))
	}
	return 611.21 * math.Exp(22.587*tc/(tc+273.86))
}

// SaturationVaporPressure returns e_sat(tas) in Pa.
func SaturationVaporPressure(tas *series.DataArray) (*series.DataArray, error) {
	if err := checkTemp(tas); err != nil {
		return nil, err
	}
	fac, err := units.Convert(1, tas.Units, "K")
	if err != nil {
		return nil, err
	}
	off, err := units.Convert(0, tas.Units, "K")
	if err != nil {
		return nil, err
	}
	out := tas.Like("e_sat", "Pa")
	series.Pmap(tas.Nloc(), 0, func(i int) {
		for j, v := range tas.Data[i] {
			if math.IsNaN(v) {
				out.Data[i][j] = math.NaN()
			} else {
				out.Data[i][j] = esat(v*fac + off)
			}
		}
	})
	return out, nil
}

// RelativeHumidityFromDewpoint returns hurs (%) from tas and tdps, capped to
// [0,100].
func RelativeHumidityFromDewpoint(tas, tdps *series.DataArray) (*series.DataArray, error) {
	if err := checkTemp(tas); err != nil {
		return nil, err
	}
	if err := checkTemp(tdps); err != nil {
		return nil, err
	}
	if err := tas.SameShape(tdps); err != nil {
		return nil, err
	}
	tfac, err := units.Convert(1, tas.Units, "K")
	if err != nil {
		return nil, err
	}
	toff, err := units.Convert(0, tas.Units, "K")
	if err != nil {
		return nil, err
	}
	dfac, err := units.Convert(1, tdps.Units, "K")
	if err != nil {
		return nil, err
	}
	doff, err := units.Convert(0, tdps.Units, "K")
	if err != nil {
		return nil, err
	}
	out := tas.Like("hurs", "%")
	series.Pmap(tas.Nloc(), 0, func(i int) {
		for j := range tas.Data[i] {
			t, d := tas.Data[i][j], tdps.Data[i][j]
			if math.IsNaN(t) || math.IsNaN(d) {
				out.Data[i][j] = math.NaN()
				continue
			}
			rh := 100 * esat(d*dfac+doff) / esat(t*tfac+toff)
			out.Data[i][j] = math.Min(math.Max(rh, 0), 100)
		}
	})
	return out, nil
}

// SpecificHumidity returns huss (kg/kg) from tas, hurs and surface pressure.
func SpecificHumidity(tas, hurs, ps *series.DataArray) (*series.DataArray, error) {
	if err := checkTemp(tas); err != nil {
		return nil, err
	}
	if err := units.CheckCompatible(hurs.Units, "%"); err != nil {
		return nil, err
	}
	if err := units.CheckCompatible(ps.Units, "Pa"); err != nil {
		return nil, err
	}
	if err := tas.SameShape(hurs, ps); err != nil {
		return nil, err
	}
	tfac, err := units.Convert(1, tas.Units, "K")
	if err != nil {
		return nil, err
	}
	toff, err := units.Convert(0, tas.Units, "K")
	if err != nil {
		return nil, err
	}
	hfac, err := units.Convert(1, hurs.Units, "%")
	if err != nil {
		return nil, err
	}
	pfac, err := units.Convert(1, ps.Units, "Pa")
	if err != nil {
		return nil, err
	}
	const eps = 0.6219569100577033 // Rd/Rv
	out := tas.Like("huss", "kg/kg")
	series.Pmap(tas.Nloc(), 0, func(i int) {
		for j := range tas.Data[i] {
			t, h, p := tas.Data[i][j], hurs.Data[i][j], ps.Data[i][j]
			if math.IsNaN(t) || math.IsNaN(h) || math.IsNaN(p) {
				out.Data[i][j] = math.NaN()
				continue
			}
			e := h * hfac / 100 * esat(t*tfac+toff)
			w := eps * e / (p*pfac - e)
			out.Data[i][j] = w / (1 + w)
		}
	})
	return out, nil
}

// SnowfallApproximation splits precipitation into its solid part with a
// binary tas threshold (default "0 degC"). RainApproximation is the
// complement.
func SnowfallApproximation(pr, tas *series.DataArray, thresh string) (*series.DataArray, error) {
	return phaseSplit(pr, tas, thresh, "prsn", false)
}

func RainApproximation(pr, tas *series.DataArray, thresh string) (*series.DataArray, error) {
	return phaseSplit(pr, tas, thresh, "prlp", true)
}

func phaseSplit(pr, tas *series.DataArray, thresh, name string, liquid bool) (*series.DataArray, error) {
	if err := checkPr(pr); err != nil {
		return nil, err
	}
	if err := checkTemp(tas); err != nil {
		return nil, err
	}
	if err := pr.SameShape(tas); err != nil {
		return nil, err
	}
	t0, err := threshIn(thresh, tas)
	if err != nil {
		return nil, err
	}
	out := pr.Like(name, pr.Units)
	series.Pmap(pr.Nloc(), 0, func(i int) {
		for j := range pr.Data[i] {
			p, t := pr.Data[i][j], tas.Data[i][j]
			if math.IsNaN(p) || math.IsNaN(t) {
				out.Data[i][j] = math.NaN()
			} else if (liquid && t >= t0) || (!liquid && t < t0) {
				out.Data[i][j] = p
			}
		}
	})
	return out, nil
}

// WindChillIndex returns the Environment Canada wind chill index from tas
// and sfcWind. Outside its validity range (tas above 0 degC or wind below
// 5 km/h) the index is NaN.
func WindChillIndex(tas, sfcWind *series.DataArray) (*series.DataArray, error) {
	if err := checkTemp(tas); err != nil {
		return nil, err
	}
	if err := units.CheckCompatible(sfcWind.Units, "m/s"); err != nil {
		return nil, err
	}
	if err := tas.SameShape(sfcWind); err != nil {
		return nil, err
	}
	tfac, err := units.Convert(1, tas.Units, "degC")
	if err != nil {
		return nil, err
	}
	toff, err := units.Convert(0, tas.Units, "degC")
	if err != nil {
		return nil, err
	}
	wfac, err := units.Convert(1, sfcWind.Units, "km/h")
	if err != nil {
		return nil, err
	}
	out := tas.Like("wind_chill", "degC")
	series.Pmap(tas.Nloc(), 0, func(i int) {
		for j := range tas.Data[i] {
			t := tas.Data[i][j]*tfac + toff
			w := sfcWind.Data[i][j] * wfac
			if math.IsNaN(t) || math.IsNaN(w) || t > 0 || w < 5 {
				out.Data[i][j] = math.NaN()
				continue
			}
			v := math.Pow(w, 0.16)
			out.Data[i][j] = 13.12 + 0.6215*t - 11.37*v + 0.3965*t*v
		}
	})
	return out, nil
}
