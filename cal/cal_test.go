package cal

import "testing"

func TestIsLeap(t *testing.T) {
	tests := []struct {
		c    Calendar
		year int
		want bool
	}{
		{Standard, 2000, true},
		{Standard, 1900, false},
		{Standard, 2004, true},
		{Standard, 2001, false},
		{NoLeap, 2000, false},
		{AllLeap, 2001, true},
		{Day360, 2000, false},
	}
	for _, tc := range tests {
		if got := tc.c.IsLeap(tc.year); got != tc.want {
			t.Errorf("%v.IsLeap(%d) = %v, want %v", tc.c, tc.year, got, tc.want)
		}
	}
}

func TestDaysInYear(t *testing.T) {
	if n := Standard.DaysInYear(2000); n != 366 {
		t.Errorf("standard 2000: %d", n)
	}
	if n := NoLeap.DaysInYear(2000); n != 365 {
		t.Errorf("noleap 2000: %d", n)
	}
	if n := Day360.DaysInYear(1999); n != 360 {
		t.Errorf("360_day: %d", n)
	}
}

func TestAddDays(t *testing.T) {
	d := Date{2000, 2, 28}.AddDays(Standard, 1)
	if d != (Date{2000, 2, 29}) {
		t.Errorf("standard feb 28 + 1 = %v", d)
	}
	d = Date{2000, 2, 28}.AddDays(NoLeap, 1)
	if d != (Date{2000, 3, 1}) {
		t.Errorf("noleap feb 28 + 1 = %v", d)
	}
	d = Date{1999, 12, 31}.AddDays(Standard, 1)
	if d != (Date{2000, 1, 1}) {
		t.Errorf("year rollover: %v", d)
	}
	d = Date{2000, 1, 1}.AddDays(Day360, 359)
	if d != (Date{2000, 12, 30}) {
		t.Errorf("360_day year end: %v", d)
	}
	d = Date{2000, 1, 1}.AddDays(NoLeap, 730)
	if d != (Date{2002, 1, 1}) {
		t.Errorf("noleap two years: %v", d)
	}
}

func TestDayOfYear(t *testing.T) {
	if doy := (Date{2000, 3, 1}).DayOfYear(Standard); doy != 61 {
		t.Errorf("standard leap mar 1: %d", doy)
	}
	if doy := (Date{2000, 3, 1}).DayOfYear(NoLeap); doy != 60 {
		t.Errorf("noleap mar 1: %d", doy)
	}
	if doy := (Date{2000, 12, 30}).DayOfYear(Day360); doy != 360 {
		t.Errorf("360_day year end: %d", doy)
	}
}

func TestAxisResampleAnnual(t *testing.T) {
	// two full standard years
	a := NewAxis(Date{2000, 1, 1}, 731, Standard)
	f, err := ParseFreq("YS")
	if err != nil {
		t.Fatal(err)
	}
	spans := a.Resample(f)
	if len(spans) != 2 {
		t.Fatalf("expected 2 annual spans, got %d", len(spans))
	}
	if spans[0].I1-spans[0].I0 != 366 || spans[1].I1-spans[1].I0 != 365 {
		t.Errorf("span lengths: %d, %d", spans[0].I1-spans[0].I0, spans[1].I1-spans[1].I0)
	}
	if spans[1].Start != (Date{2001, 1, 1}) {
		t.Errorf("second span start: %v", spans[1].Start)
	}
}

func TestAxisResampleAnchored(t *testing.T) {
	// AS-JUL: periods straddle calendar years
	a := NewAxis(Date{2000, 1, 1}, 365, NoLeap)
	f, _ := ParseFreq("AS-JUL")
	spans := a.Resample(f)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Start != (Date{1999, 7, 1}) {
		t.Errorf("first period start: %v", spans[0].Start)
	}
	if spans[1].Start != (Date{2000, 7, 1}) {
		t.Errorf("second period start: %v", spans[1].Start)
	}
	if a.Dates[spans[1].I0] != (Date{2000, 7, 1}) {
		t.Errorf("second span begins at %v", a.Dates[spans[1].I0])
	}
}

func TestAxisResampleQSDEC(t *testing.T) {
	a := NewAxis(Date{2000, 12, 1}, 90, NoLeap) // DJF 2000-12-01 .. 2001-02-28
	f, _ := ParseFreq("QS-DEC")
	spans := a.Resample(f)
	if len(spans) != 1 {
		t.Fatalf("expected a single DJF span, got %d", len(spans))
	}
	if spans[0].Start != (Date{2000, 12, 1}) {
		t.Errorf("DJF start: %v", spans[0].Start)
	}
}

func TestAxisResampleMonthly(t *testing.T) {
	a := NewAxis(Date{2001, 1, 1}, 365, NoLeap)
	f, _ := ParseFreq("MS")
	spans := a.Resample(f)
	if len(spans) != 12 {
		t.Fatalf("expected 12 spans, got %d", len(spans))
	}
	if n := spans[1].I1 - spans[1].I0; n != 28 {
		t.Errorf("noleap february: %d days", n)
	}
}

func TestParseFreqErrors(t *testing.T) {
	for _, s := range []string{"WS", "MS-JUL", "YS-XXX", ""} {
		if _, err := ParseFreq(s); err == nil {
			t.Errorf("ParseFreq(%q) should fail", s)
		}
	}
}

func TestConvertCalendarDropsFeb29(t *testing.T) {
	a := NewAxis(Date{2000, 2, 27}, 4, Standard) // feb 27, 28, 29, mar 1
	b, ix := a.ConvertCalendar(NoLeap)
	if b.Len() != 3 {
		t.Fatalf("noleap axis length: %d", b.Len())
	}
	want := []int{0, 1, 3}
	for i, j := range ix {
		if j != want[i] {
			t.Errorf("ix[%d] = %d, want %d", i, j, want[i])
		}
	}
}

func TestConvertCalendarInsertsMissing(t *testing.T) {
	a := NewAxis(Date{2000, 2, 27}, 3, NoLeap) // feb 27, 28, mar 1
	b, ix := a.ConvertCalendar(Standard)
	if b.Len() != 4 {
		t.Fatalf("standard axis length: %d", b.Len())
	}
	if ix[2] != -1 {
		t.Errorf("feb 29 should map to -1, got %d", ix[2])
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("1971-06-05")
	if err != nil {
		t.Fatal(err)
	}
	if d != (Date{1971, 6, 5}) {
		t.Errorf("got %v", d)
	}
	if _, err := ParseDate("1971-13-05"); err == nil {
		t.Error("month 13 should fail")
	}
}
