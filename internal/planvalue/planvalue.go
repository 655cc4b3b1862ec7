package planvalue

import (
	"math"
	"time"
)

// Classification buckets for delay risk, keyed off PPC.
type Classification string

const (
	ClassificationLow    Classification = "low"
	ClassificationMedium Classification = "medium"
	ClassificationHigh   Classification = "high"
)

// Schedule status buckets, keyed off schedule variance.
const (
	StatusOnTrack = "on-track"
	StatusAtRisk  = "at-risk"
	StatusDelayed = "delayed"
)

const (
	riskHighBelow      = 70
	riskMediumBelow    = 85
	varianceAtRiskFrom = -10
)

// Entry is one dated plan-vs-actual observation. Quantities are nil when the
// user never filled them in; a nil date means the observation cannot be placed
// on the timeline and is excluded from windowed aggregates.
type Entry struct {
	Date    *time.Time
	Actual  *float64
	Planned *float64
}

// PPC returns the percentage of plan completed for a single pair, clamped to
// [0,100]. A non-positive plan yields 0 rather than a division error; negative
// actuals count as 0.
func PPC(actual, planned float64) float64 {
	if planned <= 0 {
		return 0
	}
	if actual < 0 {
		actual = 0
	}
	pct := math.Round(actual / planned * 100)
	if pct > 100 {
		return 100
	}
	return pct
}

// AveragePPC aggregates entries into a single PPC by summing actual and
// planned quantities first, then dividing once. This weights large entries
// more than small ones, which is the intended behavior (it is not a mean of
// per-entry PPCs). Entries missing either quantity, or with a non-positive
// plan, do not contribute.
func AveragePPC(entries []Entry) float64 {
	var totalActual, totalPlanned float64
	for _, e := range entries {
		if e.Actual == nil || e.Planned == nil || *e.Planned <= 0 {
			continue
		}
		totalActual += *e.Actual
		totalPlanned += *e.Planned
	}
	return PPC(totalActual, totalPlanned)
}

// CumulativePPC is AveragePPC restricted to entries dated within [start, end]
// inclusive. A nil bound leaves that side unbounded. Entries without a usable
// date are skipped.
func CumulativePPC(entries []Entry, start, end *time.Time) float64 {
	filtered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Date == nil {
			continue
		}
		if start != nil && e.Date.Before(*start) {
			continue
		}
		if end != nil && e.Date.After(*end) {
			continue
		}
		filtered = append(filtered, e)
	}
	return AveragePPC(filtered)
}

// ScheduleVariance is actual percent complete minus planned percent complete.
func ScheduleVariance(actualPct, plannedPct float64) float64 {
	return actualPct - plannedPct
}

// ScheduleStatus maps a variance to a status label. Exactly 0 is on-track and
// exactly -10 is at-risk.
func ScheduleStatus(variance float64) string {
	switch {
	case variance < varianceAtRiskFrom:
		return StatusDelayed
	case variance < 0:
		return StatusAtRisk
	default:
		return StatusOnTrack
	}
}

// Classify maps a PPC to a three-tier risk classification. The boundaries
// belong to the lower tier: 70 is medium, 85 is low.
func Classify(ppc float64) Classification {
	switch {
	case ppc < riskHighBelow:
		return ClassificationHigh
	case ppc < riskMediumBelow:
		return ClassificationMedium
	default:
		return ClassificationLow
	}
}
