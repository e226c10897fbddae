package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yeremiapane/table-reservation/models"
)

// DetectConflicts returns every live reservation on tableNumber whose window
// overlaps [start, end). The reservation identified by excludeID is skipped so
// an update is never checked against its own previous state. Results are
// ordered by start time.
func DetectConflicts(existing []models.Reservation, start, end time.Time, tableNumber int, excludeID string, durationMinutes int) []models.Reservation {
	var conflicts []models.Reservation
	for _, r := range existing {
		if r.TableNumber != tableNumber || r.Cancelled {
			continue
		}
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		rStart, rEnd := Window(r.StartTime, durationMinutes)
		if Overlaps(start, end, rStart, rEnd) {
			conflicts = append(conflicts, r)
		}
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		if conflicts[i].StartTime.Equal(conflicts[j].StartTime) {
			return conflicts[i].ID < conflicts[j].ID
		}
		return conflicts[i].StartTime.Before(conflicts[j].StartTime)
	})
	return conflicts
}

// FindConflicts loads the live reservations of a table from store and runs
// DetectConflicts against them. Conflicts carry their projected status. The store is read on every call; callers
// that need the check to hold until they write must run it inside
// ReservationStore.WithTableLock.
func (s *Scheduler) FindConflicts(ctx context.Context, store ReservationStore, start, end time.Time, tableNumber int, excludeID string) ([]models.Reservation, error) {
	existing, err := store.FindReservationsByTable(ctx, tableNumber, true)
	if err != nil {
		return nil, fmt.Errorf("load reservations for table %d: %w", tableNumber, err)
	}
	conflicts := DetectConflicts(existing, start, end, tableNumber, excludeID, s.durationMinutes)
	now := s.now()
	for i := range conflicts {
		conflicts[i] = Project(conflicts[i], s.durationMinutes, now)
	}
	return conflicts, nil
}
