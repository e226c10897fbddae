package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/table-reservation/models"
)

const (
	// MinimumLeadTime is the smallest gap allowed between now and the start
	// of a new or rescheduled reservation.
	MinimumLeadTime = time.Hour
	// DefaultDurationMinutes applies when Config leaves the duration unset.
	DefaultDurationMinutes = 90
)

// Config carries the process-wide settings of a Scheduler.
type Config struct {
	// DefaultDurationMinutes is the length of every reservation window.
	DefaultDurationMinutes int
	Now                    func() time.Time
	// Location is used for zone-less timestamps and calendar-day filters.
	Location *time.Location
	Logger   logrus.FieldLogger
}

// Scheduler accepts, rejects and updates reservations. It holds no state
// between calls; every decision is made against the stores.
type Scheduler struct {
	tables          TableStore
	reservations    ReservationStore
	durationMinutes int
	now             func() time.Time
	loc             *time.Location
	logger          logrus.FieldLogger
	newID           func() string
}

func NewScheduler(tables TableStore, reservations ReservationStore, cfg Config) *Scheduler {
	if cfg.DefaultDurationMinutes <= 0 {
		cfg.DefaultDurationMinutes = DefaultDurationMinutes
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Scheduler{
		tables:          tables,
		reservations:    reservations,
		durationMinutes: cfg.DefaultDurationMinutes,
		now:             cfg.Now,
		loc:             cfg.Location,
		logger:          cfg.Logger,
		newID:           uuid.NewString,
	}
}

// DurationMinutes returns the configured reservation length.
func (s *Scheduler) DurationMinutes() int { return s.durationMinutes }

// Now returns the current time of the scheduler clock.
func (s *Scheduler) Now() time.Time { return s.now() }

// Location returns the venue location.
func (s *Scheduler) Location() *time.Location { return s.loc }

// CreateReservationRequest holds the caller supplied fields of a new booking.
// StartTime is kept raw so that parse failures surface as INVALID_TIMESTAMP.
type CreateReservationRequest struct {
	ClientName  string
	Contact     string
	TableNumber int
	PartySize   int
	StartTime   string
	Notes       *string
}

// ReservationPatch lists the fields to change; nil fields keep their value.
type ReservationPatch struct {
	ClientName  *string
	Contact     *string
	TableNumber *int
	PartySize   *int
	StartTime   *string
	Notes       *string
	Status      *string
}

// ListFilter narrows ListReservations. Status matches the projected status.
type ListFilter struct {
	Client      string
	TableNumber int
	Status      models.ReservationStatus
	Day         string
}

// TableSpec holds the fields of a new table.
type TableSpec struct {
	Number   int
	Capacity int
	Location string
}

// CreateReservation validates req and persists it when the table is free for
// the whole window.
func (s *Scheduler) CreateReservation(ctx context.Context, req CreateReservationRequest) (res models.Reservation, err error) {
	logger := s.logger.WithFields(logrus.Fields{
		"operation": "CreateReservation",
		"table":     req.TableNumber,
	})
	defer func() { s.logOutcome(logger, err, res.ID, "reservation created") }()

	candidate := models.Reservation{
		ClientName:  strings.TrimSpace(req.ClientName),
		Contact:     strings.TrimSpace(req.Contact),
		TableNumber: req.TableNumber,
		PartySize:   req.PartySize,
		Notes:       normalizeNotes(req.Notes),
	}
	if strings.TrimSpace(req.StartTime) == "" {
		err = newError(KindInvalidRequest, "missing required fields: %s",
			strings.Join(append(missingFields(candidate), "start_time"), ", "))
		return
	}
	if err = validateRequired(candidate); err != nil {
		return
	}

	start, err := s.validate(ctx, candidate.TableNumber, candidate.PartySize, &req.StartTime, time.Time{})
	if err != nil {
		return
	}
	now := s.now()
	candidate.ID = s.newID()
	candidate.StartTime = start
	candidate.CreatedAt = now
	candidate.UpdatedAt = now

	_, end := Window(start, s.durationMinutes)
	err = s.reservations.WithTableLock(ctx, candidate.TableNumber, func(store ReservationStore) error {
		conflicts, err := s.FindConflicts(ctx, store, start, end, candidate.TableNumber, "")
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return conflictError(conflicts)
		}
		if err := store.InsertReservation(ctx, &candidate); err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return
	}

	res = Project(candidate, s.durationMinutes, now)
	return
}

// UpdateReservation merges patch over the stored reservation and re-runs the
// create validations against the result. A status of "cancelado" cancels the
// reservation and ignores the other fields; temporal statuses are derived
// from the clock and cannot be set.
func (s *Scheduler) UpdateReservation(ctx context.Context, id string, patch ReservationPatch) (res models.Reservation, err error) {
	logger := s.logger.WithFields(logrus.Fields{
		"operation":      "UpdateReservation",
		"reservation_id": id,
	})
	defer func() { s.logOutcome(logger, err, res.ID, "reservation updated") }()

	existing, err := s.findReservation(ctx, id)
	if err != nil {
		return
	}

	if patch.Status != nil {
		status := models.ReservationStatus(strings.TrimSpace(*patch.Status))
		if status == models.StatusCancelled {
			return s.cancel(ctx, existing)
		}
		if status.Valid() {
			err = newError(KindInvalidStatus, "status %q is derived from the reservation time and cannot be set", status)
		} else {
			err = newError(KindInvalidStatus, "unknown status %q", status)
		}
		return
	}

	merged := existing
	if patch.ClientName != nil {
		merged.ClientName = strings.TrimSpace(*patch.ClientName)
	}
	if patch.Contact != nil {
		merged.Contact = strings.TrimSpace(*patch.Contact)
	}
	if patch.TableNumber != nil {
		merged.TableNumber = *patch.TableNumber
	}
	if patch.PartySize != nil {
		merged.PartySize = *patch.PartySize
	}
	if patch.Notes != nil {
		merged.Notes = normalizeNotes(patch.Notes)
	}
	if err = validateRequired(merged); err != nil {
		return
	}

	start, err := s.validate(ctx, merged.TableNumber, merged.PartySize, patch.StartTime, existing.StartTime)
	if err != nil {
		return
	}
	now := s.now()
	merged.StartTime = start
	merged.UpdatedAt = now

	_, end := Window(start, s.durationMinutes)
	err = s.reservations.WithTableLock(ctx, merged.TableNumber, func(store ReservationStore) error {
		// A cancellation may have landed since the first read.
		current, err := store.FindReservationByID(ctx, merged.ID)
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				return newError(KindReservationNotFound, "reservation %s not found", merged.ID)
			}
			return fmt.Errorf("reload reservation: %w", err)
		}
		merged.Cancelled = current.Cancelled

		// A cancelled reservation holds no slot, so it cannot collide.
		if !merged.Cancelled {
			conflicts, err := s.FindConflicts(ctx, store, start, end, merged.TableNumber, merged.ID)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return conflictError(conflicts)
			}
		}
		if err := store.UpdateReservation(ctx, &merged); err != nil {
			return fmt.Errorf("update reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return
	}

	res = Project(merged, s.durationMinutes, now)
	return
}

// CancelReservation marks the reservation cancelled. Cancelling twice is not
// an error.
func (s *Scheduler) CancelReservation(ctx context.Context, id string) (res models.Reservation, err error) {
	logger := s.logger.WithFields(logrus.Fields{
		"operation":      "CancelReservation",
		"reservation_id": id,
	})
	defer func() { s.logOutcome(logger, err, res.ID, "reservation cancelled") }()

	existing, err := s.findReservation(ctx, id)
	if err != nil {
		return
	}
	return s.cancel(ctx, existing)
}

// GetReservation returns one reservation with its projected status.
func (s *Scheduler) GetReservation(ctx context.Context, id string) (models.Reservation, error) {
	r, err := s.findReservation(ctx, id)
	if err != nil {
		return models.Reservation{}, err
	}
	return Project(r, s.durationMinutes, s.now()), nil
}

// ListReservations returns the matching reservations, ordered by start, with
// their status projected at the current time.
func (s *Scheduler) ListReservations(ctx context.Context, filter ListFilter) ([]models.Reservation, error) {
	storeFilter := StoreFilter{
		ClientContains: strings.TrimSpace(filter.Client),
		TableNumber:    filter.TableNumber,
	}
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, newError(KindInvalidStatus, "unknown status %q", filter.Status)
		}
		cancelled := filter.Status == models.StatusCancelled
		storeFilter.Cancelled = &cancelled
	}
	if strings.TrimSpace(filter.Day) != "" {
		from, to, err := ParseDay(filter.Day, s.loc)
		if err != nil {
			return nil, err
		}
		storeFilter.StartsFrom = &from
		storeFilter.StartsBefore = &to
	}

	stored, err := s.reservations.FindReservations(ctx, storeFilter)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	now := s.now()
	out := make([]models.Reservation, 0, len(stored))
	for _, r := range stored {
		projected := Project(r, s.durationMinutes, now)
		if filter.Status != "" && projected.Status != filter.Status {
			continue
		}
		out = append(out, projected)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

// CreateTable validates req and stores a new table.
func (s *Scheduler) CreateTable(ctx context.Context, req TableSpec) (table models.Table, err error) {
	logger := s.logger.WithFields(logrus.Fields{
		"operation": "CreateTable",
		"table":     req.Number,
	})
	defer func() {
		if err != nil {
			s.logOutcome(logger, err, "", "")
			return
		}
		logger.Info("table created")
	}()

	table = models.Table{
		Number:   req.Number,
		Capacity: req.Capacity,
		Location: strings.TrimSpace(req.Location),
	}
	var invalid []string
	if table.Number <= 0 {
		invalid = append(invalid, "number must be positive")
	}
	if table.Capacity <= 0 {
		invalid = append(invalid, "capacity must be positive")
	}
	if table.Location == "" {
		invalid = append(invalid, "location is required")
	}
	if len(invalid) > 0 {
		err = newError(KindInvalidRequest, "%s", strings.Join(invalid, "; "))
		return models.Table{}, err
	}

	if err = s.tables.InsertTable(ctx, &table); err != nil {
		if errors.Is(err, ErrDuplicateRecord) {
			err = newError(KindDuplicateTableNumber, "table number %d already exists", req.Number)
		} else {
			err = fmt.Errorf("insert table: %w", err)
		}
		return models.Table{}, err
	}
	return table, nil
}

// ListTables returns all tables sorted by number.
func (s *Scheduler) ListTables(ctx context.Context) ([]models.Table, error) {
	tables, err := s.tables.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	sorted := make([]models.Table, len(tables))
	copy(sorted, tables)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })
	return sorted, nil
}

// validate runs the table, capacity, timestamp and lead time checks in that
// order. rawStart replaces fallback when set.
func (s *Scheduler) validate(ctx context.Context, tableNumber, partySize int, rawStart *string, fallback time.Time) (time.Time, error) {
	table, err := s.tables.GetTableByNumber(ctx, tableNumber)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return time.Time{}, newError(KindTableNotFound, "table %d does not exist", tableNumber)
		}
		return time.Time{}, fmt.Errorf("load table %d: %w", tableNumber, err)
	}

	if err := ValidateCapacity(partySize, table); err != nil {
		return time.Time{}, err
	}

	start := fallback
	if rawStart != nil {
		start, err = ParseTimestamp(*rawStart, s.loc)
		if err != nil {
			return time.Time{}, err
		}
	}

	if earliest := s.now().Add(MinimumLeadTime); start.Before(earliest) {
		return time.Time{}, newError(KindLeadTimeViolation,
			"reservations must be made at least 1 hour in advance (earliest start %s)", earliest.UTC().Format(time.RFC3339))
	}
	return start, nil
}

func (s *Scheduler) cancel(ctx context.Context, r models.Reservation) (models.Reservation, error) {
	now := s.now()
	if !r.Cancelled {
		r.Cancelled = true
		r.UpdatedAt = now
		if err := s.reservations.MarkCancelled(ctx, r.ID, now); err != nil {
			return models.Reservation{}, fmt.Errorf("cancel reservation: %w", err)
		}
	}
	return Project(r, s.durationMinutes, now), nil
}

func (s *Scheduler) findReservation(ctx context.Context, id string) (models.Reservation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Reservation{}, newError(KindReservationNotFound, "reservation not found")
	}
	r, err := s.reservations.FindReservationByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return models.Reservation{}, newError(KindReservationNotFound, "reservation %s not found", id)
		}
		return models.Reservation{}, fmt.Errorf("load reservation %s: %w", id, err)
	}
	return r, nil
}

func (s *Scheduler) logOutcome(logger logrus.FieldLogger, err error, reservationID, msg string) {
	if err == nil {
		logger.WithField("reservation_id", reservationID).Info(msg)
		return
	}
	kind := KindOf(err)
	if kind == "" {
		logger.WithError(err).Error("operation failed")
		return
	}
	logger.WithError(err).WithField("error_kind", kind).Warn("request rejected")
}

func validateRequired(r models.Reservation) error {
	if missing := missingFields(r); len(missing) > 0 {
		return newError(KindInvalidRequest, "missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func missingFields(r models.Reservation) []string {
	var missing []string
	if r.ClientName == "" {
		missing = append(missing, "client_name")
	}
	if r.Contact == "" {
		missing = append(missing, "contact")
	}
	if r.TableNumber <= 0 {
		missing = append(missing, "table_number")
	}
	if r.PartySize <= 0 {
		missing = append(missing, "party_size")
	}
	return missing
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
