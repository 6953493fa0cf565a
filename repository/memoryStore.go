package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go-restaurant-reservation/helpers"
	"go-restaurant-reservation/models"
)

// MemoryStore holds reservations and slot claims in process memory behind a
// single mutex, giving the same all-or-nothing commit semantics as the mongo
// store. It backs the test suites and is good enough for local development
// without a database.
type MemoryStore struct {
	mu           sync.Mutex
	reservations map[string]*models.Reservation
	claims       map[string]string // "date|slot|table" -> reservation_id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reservations: make(map[string]*models.Reservation),
		claims:       make(map[string]string),
	}
}

func claimKey(date string, timeSlot string, table int) string {
	return fmt.Sprintf("%s|%s|%d", date, timeSlot, table)
}

func (s *MemoryStore) Create(ctx context.Context, reservation *models.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contested := make([]int, 0)
	for _, table := range reservation.Selected_tables {
		if _, taken := s.claims[claimKey(reservation.Reservation_date, reservation.Time_slot, table)]; taken {
			contested = append(contested, table)
		}
	}
	if len(contested) > 0 {
		sort.Ints(contested)
		return &TablesUnavailableError{Tables: contested}
	}

	for _, table := range reservation.Selected_tables {
		s.claims[claimKey(reservation.Reservation_date, reservation.Time_slot, table)] = reservation.Reservation_id
	}
	stored := *reservation
	s.reservations[reservation.Reservation_id] = &stored
	return nil
}

func (s *MemoryStore) FindByID(ctx context.Context, reservationID string) (*models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reservation, ok := s.reservations[reservationID]
	if !ok {
		return nil, ErrReservationNotFound
	}
	copied := *reservation
	return &copied, nil
}

func (s *MemoryStore) List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Reservation, 0)
	for _, reservation := range s.reservations {
		if filter.Customer_email != "" && reservation.Customer_email != filter.Customer_email {
			continue
		}
		if filter.Reservation_date != "" && reservation.Reservation_date != filter.Reservation_date {
			continue
		}
		if filter.Status != "" && reservation.Status != filter.Status {
			continue
		}
		out = append(out, *reservation)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Created_at.After(out[j].Created_at)
	})
	return out, nil
}

func (s *MemoryStore) ClaimedTables(ctx context.Context, date string, timeSlot string) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := make([]int, 0, helpers.TableCount)
	for table := 1; table <= helpers.TableCount; table++ {
		if _, taken := s.claims[claimKey(date, timeSlot, table)]; taken {
			tables = append(tables, table)
		}
	}
	return tables, nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, reservationID string, target string, now time.Time) (*models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reservation, ok := s.reservations[reservationID]
	if !ok {
		return nil, ErrReservationNotFound
	}
	if reservation.Status != models.StatusConfirmed {
		return nil, &InvalidTransitionError{Current: reservation.Status}
	}

	reservation.Status = target
	reservation.Updated_at = now
	for _, table := range reservation.Selected_tables {
		delete(s.claims, claimKey(reservation.Reservation_date, reservation.Time_slot, table))
	}
	copied := *reservation
	return &copied, nil
}
