// Package repository persists reservations and the slot claims that guard
// them. Error types defined here let handlers distinguish booking conflicts
// from stale admin actions and plain lookup misses.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-restaurant-reservation/models"
)

// ErrReservationNotFound is returned when no reservation matches the id.
// Handlers translate it into an HTTP 404 response.
var ErrReservationNotFound = errors.New("reservation not found")

// TablesUnavailableError aborts a booking commit when at least one requested
// table is already claimed for the same date and time slot. Tables lists the
// contested table numbers so the client can re-offer a corrected selection.
type TablesUnavailableError struct {
	Tables []int
}

func (e *TablesUnavailableError) Error() string {
	return fmt.Sprintf("tables %v are no longer available for the selected slot", e.Tables)
}

// InvalidTransitionError rejects a status change on a reservation that is not
// in the confirmed state. It usually indicates a stale admin screen.
type InvalidTransitionError struct {
	Current string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("reservation is already %s and cannot change status", e.Current)
}

// ReservationFilter narrows List results. Empty fields match everything.
type ReservationFilter struct {
	Customer_email   string
	Reservation_date string
	Status           string
}

// ReservationStore is the storage contract for the reservation core.
//
// Create must be atomic against concurrent Create calls for the same
// (date, timeSlot): either every requested table is claimed and the
// reservation persisted, or nothing is written and a
// *TablesUnavailableError names the contested tables.
//
// UpdateStatus must be a conditional write guarded by the current status
// being confirmed, and a terminal transition must release the reservation's
// slot claims so the tables show as available on the very next read.
type ReservationStore interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	FindByID(ctx context.Context, reservationID string) (*models.Reservation, error)
	List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error)
	ClaimedTables(ctx context.Context, date string, timeSlot string) ([]int, error)
	UpdateStatus(ctx context.Context, reservationID string, target string, now time.Time) (*models.Reservation, error)
}
