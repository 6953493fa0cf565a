package helpers

import (
	"sort"
	"time"

	"go-restaurant-reservation/models"
)

// TableCount is the size of the fixed physical table pool.
const TableCount = 8

// TablePrice is the flat reservation fee per table.
const TablePrice = 500.0

// DateLayout is the wire format for reservation dates (no time component).
const DateLayout = "2006-01-02"

// TimeSlots are the twelve fixed 1-hour reservation windows of a service day.
var TimeSlots = []string{
	"09:00 - 10:00",
	"10:00 - 11:00",
	"11:00 - 12:00",
	"12:00 - 13:00",
	"13:00 - 14:00",
	"14:00 - 15:00",
	"15:00 - 16:00",
	"16:00 - 17:00",
	"17:00 - 18:00",
	"18:00 - 19:00",
	"19:00 - 20:00",
	"20:00 - 21:00",
}

func ValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

func ValidReservationDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

func ValidTableNumber(table int) bool {
	return table >= 1 && table <= TableCount
}

// TablePool returns the full set of reservable table numbers.
func TablePool() []int {
	pool := make([]int, 0, TableCount)
	for i := 1; i <= TableCount; i++ {
		pool = append(pool, i)
	}
	return pool
}

// AvailableTables subtracts the claimed tables from the pool. The result is
// sorted ascending and never nil.
func AvailableTables(claimed []int) []int {
	taken := make(map[int]bool, len(claimed))
	for _, t := range claimed {
		taken[t] = true
	}
	available := make([]int, 0, TableCount)
	for i := 1; i <= TableCount; i++ {
		if !taken[i] {
			available = append(available, i)
		}
	}
	return available
}

// NormalizeTables dedupes and sorts a table selection.
func NormalizeTables(tables []int) []int {
	seen := make(map[int]bool, len(tables))
	out := make([]int, 0, len(tables))
	for _, t := range tables {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Ints(out)
	return out
}

// IntersectTables returns the requested tables that appear in claimed,
// sorted ascending. Used to name the contested tables in a conflict.
func IntersectTables(requested []int, claimed []int) []int {
	taken := make(map[int]bool, len(claimed))
	for _, t := range claimed {
		taken[t] = true
	}
	out := make([]int, 0, len(requested))
	for _, t := range requested {
		if taken[t] {
			out = append(out, t)
		}
	}
	sort.Ints(out)
	return out
}

func TableTotal(tables []int) float64 {
	return float64(len(tables)) * TablePrice
}

func FoodTotal(items []models.FoodItem) float64 {
	total := 0.0
	for _, item := range items {
		total += float64(item.Quantity) * item.Price
	}
	return total
}
