package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/scheduling"
)

// Store implements scheduling.TableStore and scheduling.ReservationStore on
// top of gorm.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

var (
	_ scheduling.TableStore       = (*Store)(nil)
	_ scheduling.ReservationStore = (*Store)(nil)
)

// reservationColumns are written on every update. Listing them makes gorm
// write zero values such as notes=NULL. cancelled is left out so an edit
// built from an older read cannot clear a cancellation.
var reservationColumns = []string{
	"client_name", "contact", "table_number", "party_size",
	"start_time", "notes", "updated_at",
}

func (s *Store) GetTableByNumber(ctx context.Context, number int) (models.Table, error) {
	var table models.Table
	if err := s.DB.WithContext(ctx).Where("number = ?", number).First(&table).Error; err != nil {
		return models.Table{}, translate(err)
	}
	return table, nil
}

func (s *Store) ListTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := s.DB.WithContext(ctx).Order("number ASC").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (s *Store) InsertTable(ctx context.Context, table *models.Table) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Table{}).Where("number = ?", table.Number).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return scheduling.ErrDuplicateRecord
	}
	// The unique index still catches a concurrent insert of the same number.
	return translate(s.DB.WithContext(ctx).Create(table).Error)
}

func (s *Store) FindReservationsByTable(ctx context.Context, tableNumber int, excludeCancelled bool) ([]models.Reservation, error) {
	q := s.DB.WithContext(ctx).Where("table_number = ?", tableNumber)
	if excludeCancelled {
		q = q.Where("cancelled = ?", false)
	}
	var reservations []models.Reservation
	if err := q.Order("start_time ASC").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (s *Store) FindReservationByID(ctx context.Context, id string) (models.Reservation, error) {
	var r models.Reservation
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return models.Reservation{}, translate(err)
	}
	return r, nil
}

func (s *Store) FindReservations(ctx context.Context, filter scheduling.StoreFilter) ([]models.Reservation, error) {
	q := s.DB.WithContext(ctx).Model(&models.Reservation{})
	if client := strings.ToLower(strings.TrimSpace(filter.ClientContains)); client != "" {
		q = q.Where("LOWER(client_name) LIKE ?", "%"+client+"%")
	}
	if filter.TableNumber != 0 {
		q = q.Where("table_number = ?", filter.TableNumber)
	}
	if filter.Cancelled != nil {
		q = q.Where("cancelled = ?", *filter.Cancelled)
	}
	if filter.StartsFrom != nil {
		q = q.Where("start_time >= ?", filter.StartsFrom.UTC())
	}
	if filter.StartsBefore != nil {
		q = q.Where("start_time < ?", filter.StartsBefore.UTC())
	}

	var reservations []models.Reservation
	if err := q.Order("start_time ASC").Order("id ASC").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (s *Store) InsertReservation(ctx context.Context, r *models.Reservation) error {
	return translate(s.DB.WithContext(ctx).Create(r).Error)
}

func (s *Store) UpdateReservation(ctx context.Context, r *models.Reservation) error {
	result := s.DB.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", r.ID).
		Select(reservationColumns).
		Updates(r)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return s.requireReservation(ctx, r.ID)
}

func (s *Store) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	result := s.DB.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"cancelled": true, "updated_at": at.UTC()})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return s.requireReservation(ctx, id)
}

// requireReservation tells a missing row apart from an update that changed
// nothing; MySQL reports zero affected rows for the latter.
func (s *Store) requireReservation(ctx context.Context, id string) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Reservation{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return scheduling.ErrRecordNotFound
	}
	return nil
}

// WithTableLock runs fn in a transaction holding a row lock on the table row
// (SELECT ... FOR UPDATE). SQLite has no row locks; the single connection
// configured by config.InitDB serializes writers instead.
func (s *Store) WithTableLock(ctx context.Context, tableNumber int, fn func(scheduling.ReservationStore) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table models.Table
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("number = ?", tableNumber).
			First(&table).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lock table %d: %w", tableNumber, err)
		}
		return fn(&Store{DB: tx})
	})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return scheduling.ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return scheduling.ErrDuplicateRecord
	}
	return err
}
