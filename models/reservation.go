package models

import "time"

// ReservationStatus is the effective lifecycle state of a reservation. Only
// StatusCancelled has a stored counterpart (Reservation.Cancelled), the other
// states are derived from the clock on every read.
type ReservationStatus string

const (
	StatusBooked    ReservationStatus = "reservado"
	StatusOccupied  ReservationStatus = "ocupado"
	StatusCompleted ReservationStatus = "finalizado"
	StatusCancelled ReservationStatus = "cancelado"
)

// Valid reports whether s is one of the known lifecycle states.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusBooked, StatusOccupied, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Reservation struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	ClientName  string    `gorm:"type:varchar(120);not null;index" json:"client_name"`
	Contact     string    `gorm:"type:varchar(120);not null" json:"contact"`
	TableNumber int       `gorm:"not null;index:idx_reservation_table_start,priority:1" json:"table_number"`
	PartySize   int       `gorm:"not null" json:"party_size"`
	StartTime   time.Time `gorm:"not null;index:idx_reservation_table_start,priority:2" json:"start_time"`
	Notes       *string   `gorm:"type:text" json:"notes,omitempty"`
	Cancelled   bool      `gorm:"not null;default:false;index" json:"cancelled"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`

	// Status is filled in at read time and never persisted.
	Status ReservationStatus `gorm:"-" json:"status"`
}
