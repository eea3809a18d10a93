package cal

import "fmt"

// Axis is an ordered, calendar-aware time axis. Daily axes are the norm for
// the indicator and adjustment routines; resampled outputs carry period-start
// axes with the same calendar.
type Axis struct {
	Dates []Date
	Cal   Calendar
}

// NewAxis builds a daily axis of n steps starting at start.
func NewAxis(start Date, n int, c Calendar) *Axis {
	a := &Axis{Dates: make([]Date, n), Cal: c}
	d := start
	for i := 0; i < n; i++ {
		a.Dates[i] = d
		d = d.AddDays(c, 1)
	}
	return a
}

func (a *Axis) Len() int { return len(a.Dates) }

// DayOfYear returns the 1-based ordinal day labels.
func (a *Axis) DayOfYear() []int {
	o := make([]int, len(a.Dates))
	for i, d := range a.Dates {
		o[i] = d.DayOfYear(a.Cal)
	}
	return o
}

// Months returns 1-based month labels.
func (a *Axis) Months() []int {
	o := make([]int, len(a.Dates))
	for i, d := range a.Dates {
		o[i] = d.Month
	}
	return o
}

// Years returns year labels.
func (a *Axis) Years() []int {
	o := make([]int, len(a.Dates))
	for i, d := range a.Dates {
		o[i] = d.Year
	}
	return o
}

// Equal reports whether two axes share calendar and dates.
func (a *Axis) Equal(b *Axis) bool {
	if a.Cal != b.Cal || len(a.Dates) != len(b.Dates) {
		return false
	}
	for i := range a.Dates {
		if a.Dates[i] != b.Dates[i] {
			return false
		}
	}
	return true
}

// Subset returns a new axis over [i0,i1).
func (a *Axis) Subset(i0, i1 int) *Axis {
	return &Axis{Dates: a.Dates[i0:i1], Cal: a.Cal}
}

// ConvertCalendar reindexes the axis onto a target calendar, returning the
// new axis and, per output step, the source index (-1 where the source has no
// matching date, e.g. Feb 29 created going standard -> all_leap).
// Dates absent from the target calendar (Feb 29 going to noleap) are dropped.
func (a *Axis) ConvertCalendar(to Calendar) (*Axis, []int) {
	if to == a.Cal {
		ix := make([]int, len(a.Dates))
		for i := range ix {
			ix[i] = i
		}
		return &Axis{Dates: append([]Date(nil), a.Dates...), Cal: to}, ix
	}
	src := make(map[Date]int, len(a.Dates))
	for i, d := range a.Dates {
		src[d] = i
	}
	d0, d1 := a.Dates[0], a.Dates[len(a.Dates)-1]
	if !d0.Valid(to) { // e.g. Jan 31 start on a 360_day calendar
		d0.Day = to.DaysInMonth(d0.Year, d0.Month)
	}
	var dates []Date
	var ix []int
	for d := d0; !d1.Before(d); d = d.AddDays(to, 1) {
		dates = append(dates, d)
		if j, ok := src[d]; ok {
			ix = append(ix, j)
		} else {
			ix = append(ix, -1)
		}
	}
	return &Axis{Dates: dates, Cal: to}, ix
}

// sanity check used by the series constructors
func (a *Axis) check() error {
	for i := 1; i < len(a.Dates); i++ {
		if !a.Dates[i-1].Before(a.Dates[i]) {
			return fmt.Errorf("cal: axis not strictly increasing at step %d (%v)", i, a.Dates[i])
		}
	}
	return nil
}

// Validate returns an error if the axis is not strictly increasing.
func (a *Axis) Validate() error { return a.check() }
