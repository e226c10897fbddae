package scheduling

import "github.com/yeremiapane/table-reservation/models"

// ValidateCapacity fails with a CAPACITY_EXCEEDED error when the party does
// not fit at the table.
func ValidateCapacity(partySize int, table models.Table) error {
	if partySize > table.Capacity {
		return newError(KindCapacityExceeded,
			"table %d seats %d people, party of %d does not fit", table.Number, table.Capacity, partySize)
	}
	return nil
}
