package planvalue

import (
	"testing"
	"time"
)

func TestBusinessDaysBetween(t *testing.T) {
	// 2026-08-24 is a Monday.
	mon := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{name: "single_weekday", start: mon, end: mon, want: 1},
		{name: "work_week", start: mon, end: mon.AddDate(0, 0, 4), want: 5},
		{name: "full_week_skips_weekend", start: mon, end: mon.AddDate(0, 0, 6), want: 5},
		{name: "weekend_only", start: mon.AddDate(0, 0, 5), end: mon.AddDate(0, 0, 6), want: 0},
		{name: "end_before_start", start: mon, end: mon.AddDate(0, 0, -1), want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BusinessDaysBetween(tc.start, tc.end); got != tc.want {
				t.Fatalf("BusinessDaysBetween=%d, want %d", got, tc.want)
			}
		})
	}
}

func TestDailyGoal(t *testing.T) {
	mon := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	fri := mon.AddDate(0, 0, 4)

	if got := DailyGoal(100, mon, fri); got != 20 {
		t.Fatalf("DailyGoal=%v, want 20", got)
	}
	if got := DailyGoal(0, mon, fri); got != 0 {
		t.Fatalf("DailyGoal with nothing remaining=%v, want 0", got)
	}
	sat := mon.AddDate(0, 0, 5)
	if got := DailyGoal(100, sat, sat.AddDate(0, 0, 1)); got != 0 {
		t.Fatalf("DailyGoal over weekend=%v, want 0", got)
	}
}
