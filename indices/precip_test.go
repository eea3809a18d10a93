package indices

import (
	"math"
	"testing"

	"github.com/GlobalManagement/xclim/cal"
)

func TestWetdaysAndDryDays(t *testing.T) {
	vals := repeat(0.2, 365) // drizzle below threshold
	for i := 0; i < 30; i++ {
		vals[i*3] = 5.
	}
	pr := constArray("pr", "mm/d", cal.Date{Year: 2001, Month: 1, Day: 1}, vals)
	wd, err := Wetdays(pr, "1 mm/d", "YS")
	if err != nil {
		t.Fatal(err)
	}
	if wd.Data[0][0] != 30 {
		t.Errorf("wetdays: %v", wd.Data[0][0])
	}
	dd, err := DryDays(pr, "1 mm/d", "YS")
	if err != nil {
		t.Fatal(err)
	}
	if dd.Data[0][0] != 335 {
		t.Errorf("dry days: %v", dd.Data[0][0])
	}
	wp, err := WetdaysProp(pr, "1 mm/d", "YS")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(wp.Data[0][0]-30./365.) > 1e-12 {
		t.Errorf("wetdays prop: %v", wp.Data[0][0])
	}
}

func TestWetdaysFluxUnits(t *testing.T) {
	// 5 mm/d expressed as kg m-2 s-1
	vals := repeat(5./86400., 365)
	pr := constArray("pr", "kg m-2 s-1", cal.Date{Year: 2001, Month: 1, Day: 1}, vals)
	wd, err := Wetdays(pr, "1 mm/d", "YS")
	if err != nil {
		t.Fatal(err)
	}
	if wd.Data[0][0] != 365 {
		t.Errorf("wetdays from flux: %v", wd.Data[0][0])
	}
}

func TestPrecipAccumulation(t *testing.T) {
	pr := constArray("pr", "mm/d", cal.Date{Year: 2001, Month: 1, Day: 1}, repeat(2, 365))
	acc, err := PrecipAccumulation(pr, "YS")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(acc.Data[0][0]-730) > 1e-9 {
		t.Errorf("accumulation: %v", acc.Data[0][0])
	}
	if acc.Units != "mm" {
		t.Errorf("units: %q", acc.Units)
	}

	// same rate as flux must give the same total
	prf := constArray("pr", "kg m-2 s-1", cal.Date{Year: 2001, Month: 1, Day: 1}, repeat(2./86400., 365))
	accf, err := PrecipAccumulation(prf, "YS")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(accf.Data[0][0]-730) > 1e-6 {
		t.Errorf("flux accumulation: %v", accf.Data[0][0])
	}
}

func TestConsecutiveWetDryDays(t *testing.T) {
	vals := repeat(0., 365)
	for i := 100; i < 108; i++ {
		vals[i] = 10 // 8 wet days
	}
	pr := constArray("pr", "mm/d", cal.Date{Year: 2001, Month: 1, Day: 1}, vals)
	cwd, err := MaximumConsecutiveWetDays(pr, "1 mm/d", "YS")
	if err != nil {
		t.Fatal(err)
	}
	if cwd.Data[0][0] != 8 {
		t.Errorf("cwd: %v", cwd.Data[0][0])
	}
	cdd, err := MaximumConsecutiveDryDays(pr, "1 mm/d", "YS")
	if err != nil {
		t.Fatal(err)
	}
	if cdd.Data[0][0] != 257 { // 108..364
		t.Errorf("cdd: %v", cdd.Data[0][0])
	}
}

func TestDailyPrIntensity(t *testing.T) {
	vals := repeat(0., 365)
	vals[0], vals[1], vals[2] = 10, 20, 30
	pr := constArray("pr", "mm/d", cal.Date{Year: 2001, Month: 1, Day: 1}, vals)
	di, err := DailyPrIntensity(pr, "1 mm/d", "YS")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(di.Data[0][0]-20) > 1e-9 {
		t.Errorf("intensity: %v", di.Data[0][0])
	}
}

func TestMaxNDayPrecipitationAmount(t *testing.T) {
	vals := repeat(0., 365)
	vals[50], vals[51], vals[52] = 10, 30, 15
	pr := constArray("pr", "mm/d", cal.Date{Year: 2001, Month: 1, Day: 1}, vals)
	mx, err := MaxNDayPrecipitationAmount(pr, 2, "YS")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(mx.Data[0][0]-45) > 1e-9 { // 30+15
		t.Errorf("max 2-day: %v", mx.Data[0][0])
	}
	mx1, err := MaxNDayPrecipitationAmount(pr, 1, "YS")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(mx1.Data[0][0]-30) > 1e-9 {
		t.Errorf("max 1-day: %v", mx1.Data[0][0])
	}
}

func TestRainOnFrozenGround(t *testing.T) {
	prv := repeat(0., 365)
	tsv := repeat(275.15, 365)
	prv[10], tsv[10] = 5, 270.15 // rain on frozen ground
	prv[20], tsv[20] = 5, 275.15 // warm rain
	prv[30], tsv[30] = 0.1, 270.15
	pr := constArray("pr", "mm/d", cal.Date{Year: 2001, Month: 1, Day: 1}, prv)
	tas := constArray("tas", "K", cal.Date{Year: 2001, Month: 1, Day: 1}, tsv)
	n, err := RainOnFrozenGroundDays(pr, tas, "1 mm/d", "YS")
	if err != nil {
		t.Fatal(err)
	}
	if n.Data[0][0] != 1 {
		t.Errorf("rain on frozen ground: %v", n.Data[0][0])
	}
}

func TestPhasePrecipAccumulation(t *testing.T) {
	prv := repeat(2., 365)
	tsv := repeat(275.15, 365)
	for i := 0; i < 100; i++ {
		tsv[i] = 270.15 // freezing first 100 days
	}
	pr := constArray("pr", "mm/d", cal.Date{Year: 2001, Month: 1, Day: 1}, prv)
	tas := constArray("tas", "K", cal.Date{Year: 2001, Month: 1, Day: 1}, tsv)
	liq, err := LiquidPrecipAccumulation(pr, tas, "0 degC", "YS")
	if err != nil {
		t.Fatal(err)
	}
	sol, err := SolidPrecipAccumulation(pr, tas, "0 degC", "YS")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(liq.Data[0][0]-530) > 1e-9 {
		t.Errorf("liquid: %v", liq.Data[0][0])
	}
	if math.Abs(sol.Data[0][0]-200) > 1e-9 {
		t.Errorf("solid: %v", sol.Data[0][0])
	}
	if math.Abs(liq.Data[0][0]+sol.Data[0][0]-730) > 1e-9 {
		t.Error("phases should partition the total")
	}
}

func TestDaysOverPrecipThresh(t *testing.T) {
	// climatology from a flat reference, then a spike year
	ref := constArray("pr", "mm/d", cal.Date{Year: 2001, Month: 1, Day: 1}, repeat(2, 730))
	per, err := PercentileDOY(ref, 5, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	vals := repeat(2., 365)
	vals[42] = 50
	pr := constArray("pr", "mm/d", cal.Date{Year: 2003, Month: 1, Day: 1}, vals)
	n, err := DaysOverPrecipThresh(pr, per, "YS")
	if err != nil {
		t.Fatal(err)
	}
	if n.Data[0][0] != 1 {
		t.Errorf("days over: %v", n.Data[0][0])
	}
	fr, err := FractionOverPrecipThresh(pr, per, "YS")
	if err != nil {
		t.Fatal(err)
	}
	want := 50. / (2.*364 + 50)
	if math.Abs(fr.Data[0][0]-want) > 1e-12 {
		t.Errorf("fraction over: %v want %v", fr.Data[0][0], want)
	}
}
