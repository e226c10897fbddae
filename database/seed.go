package database

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/scheduling"
)

// DefaultTables is the floor plan loaded by the seed command.
var DefaultTables = []models.Table{
	{Number: 1, Capacity: 2, Location: "Salão"},
	{Number: 2, Capacity: 2, Location: "Salão"},
	{Number: 3, Capacity: 4, Location: "Varanda"},
	{Number: 4, Capacity: 4, Location: "Varanda"},
	{Number: 5, Capacity: 6, Location: "Área Interna"},
	{Number: 6, Capacity: 8, Location: "Área Interna"},
}

// SeedTables inserts every table of tables whose number is not taken yet and
// returns how many were created.
func SeedTables(ctx context.Context, store scheduling.TableStore, tables []models.Table, logger logrus.FieldLogger) (int, error) {
	created := 0
	for _, t := range tables {
		table := t
		err := store.InsertTable(ctx, &table)
		switch {
		case err == nil:
			created++
			logger.WithField("table", table.Number).Info("table created")
		case errors.Is(err, scheduling.ErrDuplicateRecord):
			logger.WithField("table", table.Number).Info("table already exists")
		default:
			return created, err
		}
	}
	return created, nil
}
