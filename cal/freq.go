package cal

import (
	"fmt"
	"strings"
)

// Freq is a resampling frequency: annual, quarterly or monthly periods, with
// annual and quarterly frequencies optionally anchored on a start month
// ("YS", "AS-JUL", "QS-DEC", "MS").
type Freq struct {
	Unit   byte // 'Y', 'Q' or 'M'
	Anchor int  // start month of annual/quarterly periods, 1-based
}

var monthAbbr = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// ParseFreq reads a frequency string. "YS" and "AS" are synonyms.
func ParseFreq(s string) (Freq, error) {
	base, anchor := s, ""
	if i := strings.IndexByte(s, '-'); i >= 0 {
		base, anchor = s[:i], s[i+1:]
	}
	f := Freq{Anchor: 1}
	switch base {
	case "YS", "AS":
		f.Unit = 'Y'
	case "QS":
		f.Unit = 'Q'
	case "MS":
		f.Unit = 'M'
		if anchor != "" {
			return Freq{}, fmt.Errorf("cal: monthly frequency takes no anchor (%q)", s)
		}
	default:
		return Freq{}, fmt.Errorf("cal: unsupported frequency %q", s)
	}
	if anchor != "" {
		m, ok := monthAbbr[anchor]
		if !ok {
			return Freq{}, fmt.Errorf("cal: unknown anchor month in %q", s)
		}
		f.Anchor = m
	}
	return f, nil
}

func (f Freq) String() string {
	switch f.Unit {
	case 'M':
		return "MS"
	case 'Q':
		if f.Anchor == 1 {
			return "QS"
		}
	case 'Y':
		if f.Anchor == 1 {
			return "YS"
		}
	}
	for k, v := range monthAbbr {
		if v == f.Anchor {
			return fmt.Sprintf("%cS-%s", f.Unit, k)
		}
	}
	return string(f.Unit) + "S"
}

// Span is a half-open index range [I0,I1) into an axis, labelled by the
// period start date.
type Span struct {
	I0, I1 int
	Start  Date
}

// periodStart returns the start date of the period containing d.
// Anchored annual periods straddle calendar years: under AS-JUL, 1965-03-01
// belongs to the period starting 1964-07-01.
func (f Freq) periodStart(d Date) Date {
	switch f.Unit {
	case 'M':
		return Date{d.Year, d.Month, 1}
	case 'Q':
		// quarters anchored on f.Anchor: months at anchor+3k
		off := d.Month - f.Anchor
		for off < 0 {
			off += 12
		}
		m := d.Month - off%3
		y := d.Year
		if m < 1 {
			m += 12
			y--
		}
		return Date{y, m, 1}
	default:
		y := d.Year
		if d.Month < f.Anchor {
			y--
		}
		return Date{y, f.Anchor, 1}
	}
}

// Resample splits the axis into contiguous spans, one per period. Periods
// only partially covered by the axis yield truncated spans.
func (a *Axis) Resample(f Freq) []Span {
	var spans []Span
	if len(a.Dates) == 0 {
		return spans
	}
	cur := f.periodStart(a.Dates[0])
	i0 := 0
	for i, d := range a.Dates {
		if ps := f.periodStart(d); ps != cur {
			spans = append(spans, Span{i0, i, cur})
			cur, i0 = ps, i
		}
	}
	return append(spans, Span{i0, len(a.Dates), cur})
}

// Seasons returns the 3-month season label (0=DJF, 1=MAM, 2=JJA, 3=SON) per
// axis step.
func (a *Axis) Seasons() []int {
	o := make([]int, len(a.Dates))
	for i, d := range a.Dates {
		o[i] = (d.Month % 12) / 3
	}
	return o
}
