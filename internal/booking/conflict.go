package booking

import "time"

// ConflictWindow is the exclusion zone around each existing reservation.
// A new reservation must start at least this far from every other
// reservation the same user holds.
const ConflictWindow = 2 * time.Hour

// HasConflict reports whether candidate falls inside the exclusion window
// of any timestamp in existing.  A delta strictly smaller than window is a
// conflict; a delta of exactly window is allowed.  The comparison is on
// absolute instants, so callers must supply UTC (or otherwise comparable)
// timestamps.  The function is pure and does not depend on the order of
// existing.
func HasConflict(candidate time.Time, existing []time.Time, window time.Duration) bool {
	for _, t := range existing {
		delta := candidate.Sub(t)
		if delta < 0 {
			delta = -delta
		}
		if delta < window {
			return true
		}
	}
	return false
}
