package domain

import "time"

// BoundaryPolicy decides how interval endpoints are compared when checking
// two bookings for overlap. Whether a vehicle returned on some day can be
// picked up again that same day is a product decision, so it is carried as
// configuration rather than hard-coded.
type BoundaryPolicy int

const (
	// BoundaryInclusive treats endpoints as conflicting: a return on the same
	// day as another booking's pickup counts as an overlap.
	BoundaryInclusive BoundaryPolicy = iota
	// BoundaryExclusive allows same-day turnover: intervals that only touch
	// at an endpoint do not conflict.
	BoundaryExclusive
)

// Overlaps reports whether [aStart, aEnd] and [bStart, bEnd] conflict under
// the given boundary policy. The check is symmetric in its two intervals.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time, policy BoundaryPolicy) bool {
	if policy == BoundaryExclusive {
		return aStart.Before(bEnd) && aEnd.After(bStart)
	}
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}
