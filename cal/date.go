package cal

import (
	"fmt"
	"time"
)

// Date is a calendar date. It deliberately avoids time.Time so that noleap
// and 360-day model calendars can be represented exactly.
type Date struct {
	Year, Month, Day int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// ParseDate reads "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	var d Date
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &d.Year, &d.Month, &d.Day); err != nil {
		return Date{}, fmt.Errorf("cal: cannot parse date %q: %v", s, err)
	}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return Date{}, fmt.Errorf("cal: invalid date %q", s)
	}
	return d, nil
}

// Before reports whether d precedes o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// DayOfYear returns the 1-based ordinal day of d under calendar c.
func (d Date) DayOfYear(c Calendar) int {
	doy := d.Day
	for m := 1; m < d.Month; m++ {
		doy += c.DaysInMonth(d.Year, m)
	}
	return doy
}

// AddDays steps the date n days forward (n >= 0) under calendar c.
func (d Date) AddDays(c Calendar, n int) Date {
	for n > 0 {
		dim := c.DaysInMonth(d.Year, d.Month)
		if d.Day+n <= dim {
			d.Day += n
			return d
		}
		n -= dim - d.Day + 1
		d.Day = 1
		d.Month++
		if d.Month > 12 {
			d.Month = 1
			d.Year++
		}
	}
	return d
}

// Time converts to a time.Time at midnight UTC. Only meaningful for the
// standard calendar.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// DateOf converts a time.Time to a Date.
func DateOf(t time.Time) Date {
	return Date{t.Year(), int(t.Month()), t.Day()}
}

// Valid reports whether the date exists under calendar c.
func (d Date) Valid(c Calendar) bool {
	return d.Month >= 1 && d.Month <= 12 && d.Day >= 1 && d.Day <= c.DaysInMonth(d.Year, d.Month)
}
