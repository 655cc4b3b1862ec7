// Package trend detects sustained decline in a chronological series of
// plan-vs-actual variance observations. It is a fixed three-point momentum
// signal, not a regression: only the last three points matter, and the bonus
// is flat.
package trend

const (
	declineWindow = 3
	declineBonus  = 20
)

// VariancePoint converts one observation into a variance percentage relative
// to plan. Plan of zero with work done reads as +100; nothing planned and
// nothing done reads as 0.
func VariancePoint(actual, planned float64) float64 {
	switch {
	case planned > 0:
		return actual/planned*100 - 100
	case actual != 0:
		return 100
	default:
		return 0
	}
}

// DeclineBonus returns 20 when the last three points of the history are each
// strictly below their predecessor, otherwise 0. Fewer than three points never
// earn a bonus.
func DeclineBonus(history []float64) float64 {
	if len(history) < declineWindow {
		return 0
	}
	last := history[len(history)-declineWindow:]
	for i := 1; i < len(last); i++ {
		if last[i] >= last[i-1] {
			return 0
		}
	}
	return declineBonus
}
