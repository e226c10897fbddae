package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/table-reservation/hub"
	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/scheduling"
)

// ReservationLister is the part of the scheduler the monitor reads from.
type ReservationLister interface {
	ListReservations(ctx context.Context, filter scheduling.ListFilter) ([]models.Reservation, error)
	Now() time.Time
	Location() *time.Location
}

type Broadcaster interface {
	Broadcast(event string, data interface{})
}

// StatusChange is broadcast when the projected status of a reservation moves,
// for example from reservado to ocupado when its window opens.
type StatusChange struct {
	Reservation models.Reservation       `json:"reservation"`
	Previous    models.ReservationStatus `json:"previous"`
	Current     models.ReservationStatus `json:"current"`
}

// StatusMonitor polls the reservations of yesterday and today and broadcasts
// projected status transitions to the floor board. Nothing is written back.
type StatusMonitor struct {
	Lister      ReservationLister
	Broadcaster Broadcaster
	Interval    time.Duration
	Logger      logrus.FieldLogger
	StopChan    chan struct{}

	mu       sync.Mutex
	last     map[string]models.ReservationStatus
	stopOnce sync.Once
}

func NewStatusMonitor(lister ReservationLister, broadcaster Broadcaster, logger logrus.FieldLogger) *StatusMonitor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &StatusMonitor{
		Lister:      lister,
		Broadcaster: broadcaster,
		Interval:    30 * time.Second,
		Logger:      logger,
		StopChan:    make(chan struct{}),
	}
}

func (sm *StatusMonitor) Start() {
	go func() {
		ticker := time.NewTicker(sm.Interval)
		defer ticker.Stop()

		sm.CheckStatuses(context.Background())
		for {
			select {
			case <-ticker.C:
				sm.CheckStatuses(context.Background())
			case <-sm.StopChan:
				return
			}
		}
	}()
}

func (sm *StatusMonitor) Stop() {
	sm.stopOnce.Do(func() { close(sm.StopChan) })
}

// CheckStatuses runs one poll and returns the transitions it broadcast. The
// first poll only records a baseline.
func (sm *StatusMonitor) CheckStatuses(ctx context.Context) []StatusChange {
	now := sm.Lister.Now().In(sm.Lister.Location())
	current := make(map[string]models.Reservation)
	for _, day := range []time.Time{now.AddDate(0, 0, -1), now} {
		reservations, err := sm.Lister.ListReservations(ctx, scheduling.ListFilter{Day: day.Format("2006-01-02")})
		if err != nil {
			sm.Logger.WithError(err).Error("status monitor: list reservations")
			return nil
		}
		for _, r := range reservations {
			current[r.ID] = r
		}
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	var changes []StatusChange
	if sm.last != nil {
		for id, r := range current {
			previous, seen := sm.last[id]
			if !seen || previous == r.Status {
				continue
			}
			changes = append(changes, StatusChange{Reservation: r, Previous: previous, Current: r.Status})
		}
	}

	sm.last = make(map[string]models.ReservationStatus, len(current))
	for id, r := range current {
		sm.last[id] = r.Status
	}

	for _, change := range changes {
		sm.Logger.WithFields(logrus.Fields{
			"reservation_id": change.Reservation.ID,
			"table":          change.Reservation.TableNumber,
			"from":           change.Previous,
			"to":             change.Current,
		}).Info("reservation status changed")
		sm.Broadcaster.Broadcast(hub.EventReservationStatus, change)
	}
	return changes
}
