package scheduling

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/table-reservation/models"
)

// Kind is a stable rejection code that callers can switch on without parsing
// messages.
type Kind string

const (
	KindTableNotFound        Kind = "TABLE_NOT_FOUND"
	KindReservationNotFound  Kind = "RESERVATION_NOT_FOUND"
	KindInvalidTimestamp     Kind = "INVALID_TIMESTAMP"
	KindCapacityExceeded     Kind = "CAPACITY_EXCEEDED"
	KindLeadTimeViolation    Kind = "LEAD_TIME_VIOLATION"
	KindSchedulingConflict   Kind = "SCHEDULING_CONFLICT"
	KindDuplicateTableNumber Kind = "DUPLICATE_TABLE_NUMBER"
	KindInvalidRequest       Kind = "INVALID_REQUEST"
	KindInvalidStatus        Kind = "INVALID_STATUS"
)

// Error is a validation failure detected by the scheduler. Two errors match
// under errors.Is when their kinds are equal.
type Error struct {
	Kind    Kind
	Message string
	// Conflicts is only set for KindSchedulingConflict.
	Conflicts []models.Reservation
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t.Kind == e.Kind
}

var (
	ErrTableNotFound        = &Error{Kind: KindTableNotFound, Message: "table not found"}
	ErrReservationNotFound  = &Error{Kind: KindReservationNotFound, Message: "reservation not found"}
	ErrInvalidTimestamp     = &Error{Kind: KindInvalidTimestamp, Message: "invalid timestamp"}
	ErrCapacityExceeded     = &Error{Kind: KindCapacityExceeded, Message: "party exceeds table capacity"}
	ErrLeadTimeViolation    = &Error{Kind: KindLeadTimeViolation, Message: "reservations must be made at least 1 hour in advance"}
	ErrSchedulingConflict   = &Error{Kind: KindSchedulingConflict, Message: "time conflict with another reservation on this table"}
	ErrDuplicateTableNumber = &Error{Kind: KindDuplicateTableNumber, Message: "table number already exists"}
	ErrInvalidRequest       = &Error{Kind: KindInvalidRequest, Message: "invalid request"}
	ErrInvalidStatus        = &Error{Kind: KindInvalidStatus, Message: "invalid status"}
)

// Errors returned by TableStore and ReservationStore implementations.
var (
	ErrRecordNotFound  = errors.New("scheduling: record not found")
	ErrDuplicateRecord = errors.New("scheduling: duplicate record")
)

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func conflictError(conflicts []models.Reservation) *Error {
	return &Error{
		Kind:      KindSchedulingConflict,
		Message:   ErrSchedulingConflict.Message,
		Conflicts: conflicts,
	}
}

// KindOf returns the rejection code carried by err, or "" when err is not a
// scheduler validation error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
