package scheduling

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yeremiapane/table-reservation/models"
)

// memStore is an in-memory TableStore and ReservationStore.
type memStore struct {
	mu           sync.Mutex
	tableLock    sync.Mutex
	tables       map[int]models.Table
	reservations map[string]models.Reservation

	findErr   error
	insertErr error
	lockCalls []int
}

func newMemStore(tables ...models.Table) *memStore {
	s := &memStore{
		tables:       make(map[int]models.Table),
		reservations: make(map[string]models.Reservation),
	}
	for _, t := range tables {
		s.tables[t.Number] = t
	}
	return s
}

func (s *memStore) GetTableByNumber(_ context.Context, number int) (models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[number]
	if !ok {
		return models.Table{}, ErrRecordNotFound
	}
	return t, nil
}

func (s *memStore) ListTables(_ context.Context) ([]models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Table, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (s *memStore) InsertTable(_ context.Context, table *models.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[table.Number]; ok {
		return ErrDuplicateRecord
	}
	table.ID = uint(len(s.tables) + 1)
	s.tables[table.Number] = *table
	return nil
}

func (s *memStore) FindReservationsByTable(_ context.Context, tableNumber int, excludeCancelled bool) ([]models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	var out []models.Reservation
	for _, r := range s.reservations {
		if r.TableNumber != tableNumber || (excludeCancelled && r.Cancelled) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *memStore) FindReservationByID(_ context.Context, id string) (models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return models.Reservation{}, ErrRecordNotFound
	}
	return r, nil
}

func (s *memStore) FindReservations(_ context.Context, f StoreFilter) ([]models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Reservation
	for _, r := range s.reservations {
		if f.ClientContains != "" && !strings.Contains(strings.ToLower(r.ClientName), strings.ToLower(f.ClientContains)) {
			continue
		}
		if f.TableNumber != 0 && r.TableNumber != f.TableNumber {
			continue
		}
		if f.Cancelled != nil && r.Cancelled != *f.Cancelled {
			continue
		}
		if f.StartsFrom != nil && r.StartTime.Before(*f.StartsFrom) {
			continue
		}
		if f.StartsBefore != nil && !r.StartTime.Before(*f.StartsBefore) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *memStore) InsertReservation(_ context.Context, r *models.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	if _, ok := s.reservations[r.ID]; ok {
		return ErrDuplicateRecord
	}
	stored := *r
	stored.Status = ""
	s.reservations[r.ID] = stored
	return nil
}

func (s *memStore) UpdateReservation(_ context.Context, r *models.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.reservations[r.ID]
	if !ok {
		return ErrRecordNotFound
	}
	stored := *r
	stored.Status = ""
	stored.Cancelled = current.Cancelled
	s.reservations[r.ID] = stored
	return nil
}

func (s *memStore) MarkCancelled(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return ErrRecordNotFound
	}
	r.Cancelled = true
	r.UpdatedAt = at
	s.reservations[id] = r
	return nil
}

func (s *memStore) WithTableLock(_ context.Context, tableNumber int, fn func(ReservationStore) error) error {
	s.tableLock.Lock()
	defer s.tableLock.Unlock()
	s.mu.Lock()
	s.lockCalls = append(s.lockCalls, tableNumber)
	s.mu.Unlock()
	return fn(s)
}

func (s *memStore) stored(id string) models.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservations[id]
}
