package utils

import (
	"testing"
	"time"
)

func TestISOWeekLabel(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2026-08-24", "2026-W35"},
		{"2026-01-01", "2026-W01"},
		// Jan 1-3 2027 belong to the last ISO week of 2026.
		{"2027-01-01", "2026-W53"},
		{"2024-12-30", "2025-W01"},
	}
	for _, tc := range cases {
		d, err := time.Parse("2006-01-02", tc.date)
		if err != nil {
			t.Fatalf("parsing %s: %v", tc.date, err)
		}
		if got := ISOWeekLabel(d); got != tc.want {
			t.Errorf("ISOWeekLabel(%s) = %s, want %s", tc.date, got, tc.want)
		}
	}
}
