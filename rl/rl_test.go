package rl

import "testing"

func b(s string) []bool {
	o := make([]bool, len(s))
	for i, c := range s {
		o[i] = c == '1'
	}
	return o
}

func TestRuns(t *testing.T) {
	runs := Runs(b("0110111"))
	want := []Run{{1, 2}, {4, 3}}
	if len(runs) != len(want) {
		t.Fatalf("got %v", runs)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Errorf("run %d: got %v, want %v", i, runs[i], want[i])
		}
	}
	if len(Runs(b("0000"))) != 0 {
		t.Error("all false should have no runs")
	}
}

func TestLongestRun(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"0", 0},
		{"1", 1},
		{"0110111", 3},
		{"111", 3},
		{"1010101", 1},
	}
	for _, tc := range tests {
		if got := LongestRun(b(tc.in)); got != tc.want {
			t.Errorf("LongestRun(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestWindowedRunCount(t *testing.T) {
	// runs of lengths 2, 3, 1; window 2 counts 5 days in 2 events
	in := b("011011101")
	if got := WindowedRunCount(in, 2); got != 5 {
		t.Errorf("count: %d", got)
	}
	if got := WindowedRunEvents(in, 2); got != 2 {
		t.Errorf("events: %d", got)
	}
	if got := WindowedRunCount(in, 4); got != 0 {
		t.Errorf("window 4: %d", got)
	}
}

func TestFirstLastRun(t *testing.T) {
	in := b("0110111")
	if got := FirstRun(in, 2); got != 1 {
		t.Errorf("first: %d", got)
	}
	if got := FirstRun(in, 3); got != 4 {
		t.Errorf("first w3: %d", got)
	}
	if got := LastRun(in, 2); got != 4 {
		t.Errorf("last: %d", got)
	}
	if got := FirstRun(in, 5); got != -1 {
		t.Errorf("absent run: %d", got)
	}
}
