package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go-restaurant-reservation/models"
)

func TestTimeSlotsCoverServiceDay(t *testing.T) {
	require.Len(t, TimeSlots, 12)
	require.Equal(t, "09:00 - 10:00", TimeSlots[0])
	require.Equal(t, "20:00 - 21:00", TimeSlots[len(TimeSlots)-1])
	for _, slot := range TimeSlots {
		require.True(t, ValidTimeSlot(slot), "slot %q should validate", slot)
	}
}

func TestValidTimeSlotRejectsUnknownTokens(t *testing.T) {
	for _, slot := range []string{"", "21:00 - 22:00", "18:00-19:00", "18:00 – 19:00"} {
		require.False(t, ValidTimeSlot(slot), "slot %q should not validate", slot)
	}
}

func TestValidReservationDate(t *testing.T) {
	require.True(t, ValidReservationDate("2024-06-01"))
	require.False(t, ValidReservationDate("2024-13-40"))
	require.False(t, ValidReservationDate("01-06-2024"))
	require.False(t, ValidReservationDate(""))
}

func TestTablePool(t *testing.T) {
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, TablePool())
	require.True(t, ValidTableNumber(1))
	require.True(t, ValidTableNumber(8))
	require.False(t, ValidTableNumber(0))
	require.False(t, ValidTableNumber(9))
}

func TestAvailableTables(t *testing.T) {
	require.Equal(t, TablePool(), AvailableTables(nil))
	require.Equal(t, []int{3, 4, 5, 6, 7, 8}, AvailableTables([]int{1, 2}))

	full := AvailableTables(TablePool())
	require.NotNil(t, full)
	require.Empty(t, full)
}

func TestNormalizeTables(t *testing.T) {
	require.Equal(t, []int{1, 2, 3}, NormalizeTables([]int{3, 1, 3, 2}))
	require.Equal(t, []int{5}, NormalizeTables([]int{5, 5}))
}

func TestIntersectTables(t *testing.T) {
	require.Equal(t, []int{2}, IntersectTables([]int{2, 3}, []int{1, 2}))
	require.Empty(t, IntersectTables([]int{3, 4}, []int{1, 2}))
}

func TestTotals(t *testing.T) {
	require.Equal(t, 500.0, TableTotal([]int{3}))
	require.Equal(t, 1000.0, TableTotal([]int{1, 2}))

	items := []models.FoodItem{{Name: "Ramen", Quantity: 2, Price: 1100}}
	require.Equal(t, 2200.0, FoodTotal(items))
	require.Equal(t, 0.0, FoodTotal(nil))
}
