package scheduling

import "time"

// ShiftByMinutes returns t moved by the given number of minutes.
func ShiftByMinutes(t time.Time, minutes int) time.Time {
	return t.Add(time.Duration(minutes) * time.Minute)
}

// Overlaps reports whether the half-open intervals [startA, endA) and
// [startB, endB) intersect. Intervals that only touch do not overlap, so a
// booking may start exactly when the previous one ends.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}

// Window returns the [start, end) occupation window of a booking starting at
// start and lasting durationMinutes.
func Window(start time.Time, durationMinutes int) (time.Time, time.Time) {
	return start, ShiftByMinutes(start, durationMinutes)
}
