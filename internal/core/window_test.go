package core

import (
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	cases := []struct {
		in  string
		out Window
		ok  bool
	}{
		{"", WindowAll, true},
		{"all", WindowAll, true},
		{"weekly", WindowWeek, true},
		{"7d", WindowWeek, true},
		{"monthly", WindowMonth, true},
		{"quarterly", WindowQuarter, true},
		{"yearly", WindowYear, true},
		{"1y", WindowYear, true},
		{"fortnightly", "", false},
	}
	for _, tc := range cases {
		got, err := ParseWindow(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestWindowContains(t *testing.T) {
	now := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	if !WindowAll.Contains(time.Time{}, now) {
		t.Fatalf("all-time window must contain everything")
	}
	monthCutoff := now.AddDate(0, -1, 0)
	if !WindowMonth.Contains(monthCutoff, now) {
		t.Fatalf("cutoff instant itself is inside the window")
	}
	if WindowMonth.Contains(monthCutoff.Add(-time.Nanosecond), now) {
		t.Fatalf("instant before cutoff must be outside")
	}
}
