package utils

import (
	"fmt"
	"time"
)

// ISOWeekLabel returns the period key used for risk snapshots, e.g. "2026-W35".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
