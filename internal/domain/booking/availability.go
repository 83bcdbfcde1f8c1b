package booking

import "time"

// SlotAvailable reports whether the candidate interval [start, end] is free
// given the studio's bookings on record. Cancelled bookings release their
// slot, and only bookings on the candidate's calendar date are considered.
// Pure function: no side effects, order of existing does not matter.
func SlotAvailable(existing []*Booking, start, end time.Time) bool {
	for _, b := range existing {
		if b.Status == StatusCancelled {
			continue
		}
		if !sameDate(b.StartTime, start) {
			continue
		}
		if intervalsConflict(b.StartTime, b.EndTime, start, end) {
			return false
		}
	}
	return true
}

// intervalsConflict uses closed-interval comparison: two bookings may not
// share a boundary instant, so back-to-back sessions are rejected.
func intervalsConflict(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !e1.Before(s2)
}

// sameDate compares calendar dates, not timestamps
func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
