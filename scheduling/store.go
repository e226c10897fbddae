package scheduling

import (
	"context"
	"time"

	"github.com/yeremiapane/table-reservation/models"
)

// TableStore is the table lookup collaborator.
type TableStore interface {
	// GetTableByNumber returns ErrRecordNotFound when no table has the number.
	GetTableByNumber(ctx context.Context, number int) (models.Table, error)
	// ListTables returns all tables sorted by number.
	ListTables(ctx context.Context) ([]models.Table, error)
	// InsertTable returns ErrDuplicateRecord when the number is taken.
	InsertTable(ctx context.Context, table *models.Table) error
}

// StoreFilter narrows FindReservations. Zero values mean "any".
type StoreFilter struct {
	ClientContains string
	TableNumber    int
	Cancelled      *bool
	StartsFrom     *time.Time
	StartsBefore   *time.Time
}

// ReservationStore is the reservation persistence collaborator. Writes are
// durable once they return nil.
type ReservationStore interface {
	FindReservationsByTable(ctx context.Context, tableNumber int, excludeCancelled bool) ([]models.Reservation, error)
	// FindReservationByID returns ErrRecordNotFound for unknown ids.
	FindReservationByID(ctx context.Context, id string) (models.Reservation, error)
	FindReservations(ctx context.Context, filter StoreFilter) ([]models.Reservation, error)
	InsertReservation(ctx context.Context, r *models.Reservation) error
	// UpdateReservation writes the editable fields of r. It never touches the
	// cancelled flag; MarkCancelled is the only write that sets it.
	UpdateReservation(ctx context.Context, r *models.Reservation) error
	// MarkCancelled sets the cancelled flag. It returns ErrRecordNotFound for
	// unknown ids.
	MarkCancelled(ctx context.Context, id string, at time.Time) error
	// WithTableLock runs fn with a store that holds an exclusive guard on
	// tableNumber until fn returns. Writes made through the passed store are
	// committed only if fn returns nil.
	WithTableLock(ctx context.Context, tableNumber int, fn func(store ReservationStore) error) error
}
