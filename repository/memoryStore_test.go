package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-restaurant-reservation/models"
)

const (
	testDate = "2024-06-01"
	testSlot = "18:00 - 19:00"
)

func testReservation(id string, email string, tables []int) *models.Reservation {
	now := time.Now().UTC()
	return &models.Reservation{
		Reservation_id:   id,
		Customer_name:    "Mika Tan",
		Customer_email:   email,
		Customer_phone:   "0812345678",
		Reservation_date: testDate,
		Time_slot:        testSlot,
		Selected_tables:  tables,
		Table_total:      float64(len(tables)) * 500,
		Grand_total:      float64(len(tables)) * 500,
		Status:           models.StatusConfirmed,
		Created_at:       now,
		Updated_at:       now,
	}
}

func TestCreateClaimsTables(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testReservation("RSV-1", "mika@example.com", []int{1, 2})))

	claimed, err := store.ClaimedTables(ctx, testDate, testSlot)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, claimed)

	otherSlot, err := store.ClaimedTables(ctx, testDate, "19:00 - 20:00")
	require.NoError(t, err)
	require.Empty(t, otherSlot)
}

func TestCreateOverlapNamesContestedTables(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testReservation("RSV-1", "mika@example.com", []int{1, 2})))

	err := store.Create(ctx, testReservation("RSV-2", "somchai@example.com", []int{2, 3}))
	var unavailable *TablesUnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.Equal(t, []int{2}, unavailable.Tables)

	// All-or-nothing: the free table from the losing request stays free.
	claimed, err := store.ClaimedTables(ctx, testDate, testSlot)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, claimed)
	_, err = store.FindByID(ctx, "RSV-2")
	require.ErrorIs(t, err, ErrReservationNotFound)
}

func TestCreateDisjointSelectionsBothSucceed(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testReservation("RSV-1", "mika@example.com", []int{1, 2})))
	require.NoError(t, store.Create(ctx, testReservation("RSV-2", "somchai@example.com", []int{3, 4})))

	claimed, err := store.ClaimedTables(ctx, testDate, testSlot)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 4}, claimed)
}

func TestCancelFreesTablesImmediately(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testReservation("RSV-1", "mika@example.com", []int{1, 2})))

	updated, err := store.UpdateStatus(ctx, "RSV-1", models.StatusCancelled, time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, models.StatusCancelled, updated.Status)

	claimed, err := store.ClaimedTables(ctx, testDate, testSlot)
	require.NoError(t, err)
	require.Empty(t, claimed)

	// The freed tables can be claimed again straight away.
	require.NoError(t, store.Create(ctx, testReservation("RSV-2", "somchai@example.com", []int{1, 2})))
}

func TestStatusTransitionsAreOneWay(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testReservation("RSV-1", "mika@example.com", []int{5})))

	created, err := store.FindByID(ctx, "RSV-1")
	require.NoError(t, err)

	later := created.Updated_at.Add(time.Minute)
	updated, err := store.UpdateStatus(ctx, "RSV-1", models.StatusCompleted, later)
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, updated.Status)
	require.True(t, updated.Updated_at.After(created.Updated_at))

	_, err = store.UpdateStatus(ctx, "RSV-1", models.StatusCancelled, time.Now().UTC())
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, models.StatusCompleted, invalid.Current)
}

func TestUpdateStatusUnknownReservation(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.UpdateStatus(context.Background(), "RSV-missing", models.StatusCancelled, time.Now().UTC())
	require.ErrorIs(t, err, ErrReservationNotFound)
}

func TestListFilters(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testReservation("RSV-1", "mika@example.com", []int{1})))
	require.NoError(t, store.Create(ctx, testReservation("RSV-2", "somchai@example.com", []int{2})))
	_, err := store.UpdateStatus(ctx, "RSV-2", models.StatusCancelled, time.Now().UTC())
	require.NoError(t, err)

	all, err := store.List(ctx, ReservationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	byEmail, err := store.List(ctx, ReservationFilter{Customer_email: "mika@example.com"})
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	require.Equal(t, "RSV-1", byEmail[0].Reservation_id)

	cancelled, err := store.List(ctx, ReservationFilter{Status: models.StatusCancelled})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	require.Equal(t, "RSV-2", cancelled[0].Reservation_id)

	otherDate, err := store.List(ctx, ReservationFilter{Reservation_date: "2024-06-02"})
	require.NoError(t, err)
	require.Empty(t, otherDate)
}

func TestConcurrentOverlappingCommitsHaveOneWinner(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := testReservation("RSV-race-"+string(rune('A'+i)), "race@example.com", []int{5})
			errs[i] = store.Create(ctx, r)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		var unavailable *TablesUnavailableError
		require.True(t, errors.As(err, &unavailable), "unexpected error: %v", err)
		require.Equal(t, []int{5}, unavailable.Tables)
	}
	require.Equal(t, 1, winners)
}

func TestConcurrentDisjointCommitsAllSucceed(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for table := 1; table <= 8; table++ {
		wg.Add(1)
		go func(table int) {
			defer wg.Done()
			r := testReservation("RSV-disjoint-"+string(rune('0'+table)), "race@example.com", []int{table})
			errs[table-1] = store.Create(ctx, r)
		}(table)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	claimed, err := store.ClaimedTables(ctx, testDate, testSlot)
	require.NoError(t, err)
	require.Len(t, claimed, 8)
}
