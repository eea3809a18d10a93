// Package cal provides the calendars and calendar-aware time axes that daily
// climate series are indexed by.
package cal

import "fmt"

// Calendar is a CF calendar type.
type Calendar int

const (
	Standard Calendar = iota // proleptic gregorian
	NoLeap                   // 365_day
	AllLeap                  // 366_day
	Day360                   // twelve 30-day months
)

var calNames = map[string]Calendar{
	"standard":            Standard,
	"gregorian":           Standard,
	"proleptic_gregorian": Standard,
	"noleap":              NoLeap,
	"365_day":             NoLeap,
	"all_leap":            AllLeap,
	"366_day":             AllLeap,
	"360_day":             Day360,
}

// ParseCalendar maps a CF calendar attribute value to a Calendar.
func ParseCalendar(s string) (Calendar, error) {
	if c, ok := calNames[s]; ok {
		return c, nil
	}
	return Standard, fmt.Errorf("cal: unknown calendar %q", s)
}

func (c Calendar) String() string {
	switch c {
	case NoLeap:
		return "noleap"
	case AllLeap:
		return "all_leap"
	case Day360:
		return "360_day"
	default:
		return "standard"
	}
}

// IsLeap reports whether year is a leap year under the calendar.
func (c Calendar) IsLeap(year int) bool {
	switch c {
	case NoLeap, Day360:
		return false
	case AllLeap:
		return true
	default:
		return year%4 == 0 && (year%100 != 0 || year%400 == 0)
	}
}

var monthDays = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the length of a month under the calendar.
func (c Calendar) DaysInMonth(year, month int) int {
	if c == Day360 {
		return 30
	}
	if month == 2 && c.IsLeap(year) {
		return 29
	}
	return monthDays[month]
}

// DaysInYear returns the length of a year under the calendar.
func (c Calendar) DaysInYear(year int) int {
	switch c {
	case Day360:
		return 360
	case AllLeap:
		return 366
	case NoLeap:
		return 365
	default:
		if c.IsLeap(year) {
			return 366
		}
		return 365
	}
}
