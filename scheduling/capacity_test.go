package scheduling

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/table-reservation/models"
)

func TestValidateCapacity(t *testing.T) {
	for capacity := 1; capacity <= 8; capacity++ {
		table := models.Table{Number: 1, Capacity: capacity, Location: "Salão"}
		for party := 1; party <= 12; party++ {
			err := ValidateCapacity(party, table)
			if party > capacity {
				assert.True(t, errors.Is(err, ErrCapacityExceeded), "party %d at capacity %d", party, capacity)
				assert.Equal(t, KindCapacityExceeded, KindOf(err))
			} else {
				assert.NoError(t, err, "party %d at capacity %d", party, capacity)
			}
		}
	}
}
