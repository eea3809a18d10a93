// Package rl implements run-length operations on boolean series. Spell-type
// indicators (consecutive frost days, dry spells, heat waves) reduce to these.
package rl

// Run is a maximal stretch of true values.
type Run struct {
	Start, Length int
}

// Runs enumerates the maximal true runs of b in order.
func Runs(b []bool) []Run {
	var runs []Run
	n := 0
	for i, v := range b {
		if v {
			n++
			continue
		}
		if n > 0 {
			runs = append(runs, Run{i - n, n})
			n = 0
		}
	}
	if n > 0 {
		runs = append(runs, Run{len(b) - n, n})
	}
	return runs
}

// LongestRun returns the length of the longest true run.
func LongestRun(b []bool) int {
	mx, n := 0, 0
	for _, v := range b {
		if v {
			n++
			if n > mx {
				mx = n
			}
		} else {
			n = 0
		}
	}
	return mx
}

// WindowedRunCount counts the values that are part of runs of at least
// window consecutive trues.
func WindowedRunCount(b []bool, window int) int {
	if window < 1 {
		window = 1
	}
	c := 0
	for _, r := range Runs(b) {
		if r.Length >= window {
			c += r.Length
		}
	}
	return c
}

// WindowedRunEvents counts the runs of at least window consecutive trues.
func WindowedRunEvents(b []bool, window int) int {
	if window < 1 {
		window = 1
	}
	c := 0
	for _, r := range Runs(b) {
		if r.Length >= window {
			c++
		}
	}
	return c
}

// FirstRun returns the start index of the first run of at least window
// consecutive trues, or -1.
func FirstRun(b []bool, window int) int {
	if window < 1 {
		window = 1
	}
	for _, r := range Runs(b) {
		if r.Length >= window {
			return r.Start
		}
	}
	return -1
}

// LastRun returns the start index of the last run of at least window
// consecutive trues, or -1.
func LastRun(b []bool, window int) int {
	if window < 1 {
		window = 1
	}
	last := -1
	for _, r := range Runs(b) {
		if r.Length >= window {
			last = r.Start
		}
	}
	return last
}
