package ncio

import (
	"fmt"
	"math"
	"strings"

	"github.com/GlobalManagement/xclim/cal"
)

// DecodeTime builds a daily axis from a CF time coordinate: offsets from an
// epoch encoded in units like "days since 1850-01-01" or
// "hours since 1850-1-1 00:00:00", counted on the file's calendar. The
// offsets must land on consecutive days.
func DecodeTime(unitsAttr, calendarAttr string, offsets []float64) (*cal.Axis, error) {
	if len(offsets) == 0 {
		return nil, fmt.Errorf("ncio: empty time coordinate")
	}
	scale, epoch, err := parseTimeUnits(unitsAttr)
	if err != nil {
		return nil, err
	}
	c := cal.Standard
	if calendarAttr != "" {
		if c, err = cal.ParseCalendar(calendarAttr); err != nil {
			return nil, err
		}
	}
	day0 := int(math.Floor(offsets[0] * scale))
	if day0 < 0 {
		return nil, fmt.Errorf("ncio: time coordinate precedes its epoch")
	}
	for k, o := range offsets {
		d := int(math.Floor(o * scale))
		if d != day0+k {
			return nil, fmt.Errorf("ncio: time step %d is not daily (offset %v)", k, o)
		}
	}
	start := epoch.AddDays(c, day0)
	return cal.NewAxis(start, len(offsets), c), nil
}

// parseTimeUnits splits "days since 1850-01-01[ hh:mm:ss]" into a day scale
// and the epoch date.
func parseTimeUnits(s string) (float64, cal.Date, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(fields) < 3 || fields[1] != "since" {
		return 0, cal.Date{}, fmt.Errorf("ncio: cannot parse time units %q", s)
	}
	var scale float64
	switch fields[0] {
	case "days", "day", "d":
		scale = 1
	case "hours", "hour", "h":
		scale = 1. / 24
	case "minutes", "minute", "min":
		scale = 1. / 1440
	case "seconds", "second", "s", "sec":
		scale = 1. / 86400
	default:
		return 0, cal.Date{}, fmt.Errorf("ncio: unsupported time unit %q", fields[0])
	}
	epoch, err := cal.ParseDate(fields[2])
	if err != nil {
		return 0, cal.Date{}, fmt.Errorf("ncio: bad epoch in %q: %w", s, err)
	}
	return scale, epoch, nil
}
