package planvalue

import "time"

// BusinessDaysBetween counts weekdays in [start, end] inclusive. Dependency
// chaining in the scheduler is calendar-day based; only daily goal targets use
// business days. The two are intentionally different and must stay that way.
func BusinessDaysBetween(start, end time.Time) int {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return 0
	}
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}

// DailyGoal spreads the remaining quantity over the business days left until
// the end date. Returns 0 when nothing remains or no business days are left.
func DailyGoal(remainingQty float64, asOf, end time.Time) float64 {
	if remainingQty <= 0 {
		return 0
	}
	days := BusinessDaysBetween(asOf, end)
	if days == 0 {
		return 0
	}
	return remainingQty / float64(days)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
