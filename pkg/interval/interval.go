// Package interval provides half-open time interval arithmetic shared by the
// availability resolver, the slot generator, and the booking admission checks.
package interval

import "time"

// Range is a half-open interval [Start, End). A Range is valid when Start is
// strictly before End.
type Range struct {
	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
}

func New(start, end time.Time) Range {
	return Range{Start: start, End: end}
}

func (r Range) IsValid() bool {
	return r.Start.Before(r.End)
}

func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching endpoints do not overlap.
func Overlaps(a, b Range) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Contains reports whether inner lies entirely within outer. Matching
// endpoints count as contained.
func Contains(outer, inner Range) bool {
	return !inner.Start.Before(outer.Start) && !outer.End.Before(inner.End)
}

// IsMultipleOf reports whether d is a positive exact multiple of unit.
func IsMultipleOf(d, unit time.Duration) bool {
	if d <= 0 || unit <= 0 {
		return false
	}
	return d%unit == 0
}
