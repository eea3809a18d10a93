package indices

import (
	"math"
	"testing"

	"github.com/GlobalManagement/xclim/cal"
)

func TestTasMidpoint(t *testing.T) {
	tasmin := constArray("tasmin", "K", cal.Date{Year: 2001, Month: 1, Day: 1}, repeat(270, 10))
	tasmax := constArray("tasmax", "K", cal.Date{Year: 2001, Month: 1, Day: 1}, repeat(280, 10))
	tas, err := TasMidpoint(tasmin, tasmax)
	if err != nil {
		t.Fatal(err)
	}
	if tas.Data[0][0] != 275 {
		t.Errorf("midpoint: %v", tas.Data[0][0])
	}

	// mixed units
	tasminC := constArray("tasmin", "degC", cal.Date{Year: 2001, Month: 1, Day: 1}, repeat(-3.15, 10))
	tas2, err := TasMidpoint(tasminC, tasmax)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(tas2.Data[0][0]-275) > 1e-9 {
		t.Errorf("mixed units midpoint: %v", tas2.Data[0][0])
	}
}

func TestWindRoundTrip(t *testing.T) {
	uas := constArray("uas", "m/s", cal.Date{Year: 2001, Month: 1, Day: 1}, []float64{3, 0, -4})
	vas := constArray("vas", "m/s", cal.Date{Year: 2001, Month: 1, Day: 1}, []float64{4, 5, 0})
	wind, dir, err := WindSpeedFromComponents(uas, vas, "0.5 m/s")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(wind.Data[0][0]-5) > 1e-12 {
		t.Errorf("speed: %v", wind.Data[0][0])
	}
	// pure southerly (v>0, u=0) blows from 180
	if math.Abs(dir.Data[0][1]-180) > 1e-9 {
		t.Errorf("southerly from-direction: %v", dir.Data[0][1])
	}
	u2, v2, err := WindComponentsFromSpeed(wind, dir)
	if err != nil {
		t.Fatal(err)
	}
	for j := range uas.Data[0] {
		if math.Abs(u2.Data[0][j]-uas.Data[0][j]) > 1e-9 || math.Abs(v2.Data[0][j]-vas.Data[0][j]) > 1e-9 {
			t.Errorf("round trip step %d: (%v,%v)", j, u2.Data[0][j], v2.Data[0][j])
		}
	}
}

func TestWindCalm(t *testing.T) {
	uas := constArray("uas", "m/s", cal.Date{Year: 2001, Month: 1, Day: 1}, []float64{0.1})
	vas := constArray("vas", "m/s", cal.Date{Year: 2001, Month: 1, Day: 1}, []float64{0.1})
	_, dir, err := WindSpeedFromComponents(uas, vas, "0.5 m/s")
	if err != nil {
		t.Fatal(err)
	}
	if dir.Data[0][0] != 0 {
		t.Errorf("calm direction: %v", dir.Data[0][0])
	}
}

func TestSaturationVaporPressure(t *testing.T) {
	tas := constArray("tas", "degC", cal.Date{Year: 2001, Month: 1, Day: 1}, []float64{20, 0, -20})
	es, err := SaturationVaporPressure(tas)
	if err != nil {
		t.Fatal(err)
	}
	// ~2339 Pa at 20 degC, ~611 Pa at 0 degC, ~103 Pa over ice at -20 degC
	if math.Abs(es.Data[0][0]-2339) > 30 {
		t.Errorf("es(20C): %v", es.Data[0][0])
	}
	if math.Abs(es.Data[0][1]-611) > 5 {
		t.Errorf("es(0C): %v", es.Data[0][1])
	}
	if math.Abs(es.Data[0][2]-103) > 5 {
		t.Errorf("es(-20C): %v", es.Data[0][2])
	}
}

func TestRelativeHumidity(t *testing.T) {
	tas := constArray("tas", "degC", cal.Date{Year: 2001, Month: 1, Day: 1}, []float64{20, 20})
	tdps := constArray("tdps", "degC", cal.Date{Year: 2001, Month: 1, Day: 1}, []float64{20, 10})
	rh, err := RelativeHumidityFromDewpoint(tas, tdps)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rh.Data[0][0]-100) > 1e-9 {
		t.Errorf("saturated: %v", rh.Data[0][0])
	}
	if rh.Data[0][1] < 50 || rh.Data[0][1] > 56 { // ~52.5%
		t.Errorf("rh(20,10): %v", rh.Data[0][1])
	}
}

func TestSpecificHumidity(t *testing.T) {
	tas := constArray("tas", "degC", cal.Date{Year: 2001, Month: 1, Day: 1}, []float64{20})
	hurs := constArray("hurs", "%", cal.Date{Year: 2001, Month: 1, Day: 1}, []float64{50})
	ps := constArray("ps", "hPa", cal.Date{Year: 2001, Month: 1, Day: 1}, []float64{1013.25})
	q, err := SpecificHumidity(tas, hurs, ps)
	if err != nil {
		t.Fatal(err)
	}
	// ~7.2 g/kg at 20 degC, 50 %, sea level
	if q.Data[0][0] < 0.006 || q.Data[0][0] > 0.009 {
		t.Errorf("huss: %v", q.Data[0][0])
	}
}

func TestSnowfallRainApproximation(t *testing.T) {
	pr := constArray("pr", "mm/d", cal.Date{Year: 2001, Month: 1, Day: 1}, []float64{5, 5})
	tas := constArray("tas", "degC", cal.Date{Year: 2001, Month: 1, Day: 1}, []float64{-5, 5})
	prsn, err := SnowfallApproximation(pr, tas, "0 degC")
	if err != nil {
		t.Fatal(err)
	}
	prlp, err := RainApproximation(pr, tas, "0 degC")
	if err != nil {
		t.Fatal(err)
	}
	if prsn.Data[0][0] != 5 || prsn.Data[0][1] != 0 {
		t.Errorf("snow: %v", prsn.Data[0])
	}
	if prlp.Data[0][0] != 0 || prlp.Data[0][1] != 5 {
		t.Errorf("rain: %v", prlp.Data[0])
	}
}

func TestWindChillIndex(t *testing.T) {
	tas := constArray("tas", "degC", cal.Date{Year: 2001, Month: 1, Day: 1}, []float64{-10, 10, -10})
	wnd := constArray("sfcWind", "km/h", cal.Date{Year: 2001, Month: 1, Day: 1}, []float64{20, 20, 1})
	wci, err := WindChillIndex(tas, wnd)
	if err != nil {
		t.Fatal(err)
	}
	// EC tables give about -17.9 for -10 degC at 20 km/h
	if math.Abs(wci.Data[0][0]+17.9) > 0.5 {
		t.Errorf("wci: %v", wci.Data[0][0])
	}
	if !math.IsNaN(wci.Data[0][1]) {
		t.Error("warm day should be NaN")
	}
	if !math.IsNaN(wci.Data[0][2]) {
		t.Error("calm day should be NaN")
	}
}
