package scheduling

import (
	"time"

	"github.com/yeremiapane/table-reservation/models"
)

// ResolveStatus derives the effective status of a reservation occupying
// [start, end] at the instant now. Cancellation always wins.
func ResolveStatus(cancelled bool, start, end, now time.Time) models.ReservationStatus {
	switch {
	case cancelled:
		return models.StatusCancelled
	case now.Before(start):
		return models.StatusBooked
	case !now.After(end):
		return models.StatusOccupied
	default:
		return models.StatusCompleted
	}
}

// Project returns a copy of r with Status resolved against now. The stored
// record is not touched.
func Project(r models.Reservation, durationMinutes int, now time.Time) models.Reservation {
	start, end := Window(r.StartTime, durationMinutes)
	r.Status = ResolveStatus(r.Cancelled, start, end, now)
	return r
}
