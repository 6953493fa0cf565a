package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type FoodItem struct {
	Name     string  `bson:"name" json:"name" validate:"required"`
	Quantity int     `bson:"quantity" json:"quantity" validate:"required,min=1"`
	Price    float64 `bson:"price" json:"price" validate:"min=0"`
}

// ReservationRequest is the booking payload sent by the storefront. The
// hasFood flag is the tag that decides whether foodItems are part of the
// booking; client-supplied totals are accepted for wire compatibility but
// recomputed on the server.
type ReservationRequest struct {
	Customer_name    *string    `json:"customerName" validate:"required,min=2,max=100"`
	Customer_email   *string    `json:"customerEmail" validate:"required,email"`
	Customer_phone   *string    `json:"customerPhone" validate:"required,min=6"`
	Reservation_date *string    `json:"reservationDate" validate:"required"`
	Time_slot        *string    `json:"timeSlot" validate:"required"`
	Selected_tables  []int      `json:"selectedTables" validate:"required,min=1"`
	Has_food         bool       `json:"hasFood"`
	Food_items       []FoodItem `json:"foodItems" validate:"dive"`
	Special_requests string     `json:"specialRequests"`
	Table_total      float64    `json:"tableTotal"`
	Food_total       float64    `json:"foodTotal"`
	Grand_total      float64    `json:"grandTotal"`
}

// Reservation is the persisted booking. Table, food and total fields are
// immutable after creation; only status and updated_at change afterwards.
type Reservation struct {
	ID               primitive.ObjectID `bson:"_id" json:"-"`
	Reservation_id   string             `bson:"reservation_id" json:"reservationId"`
	Customer_name    string             `bson:"customer_name" json:"customerName"`
	Customer_email   string             `bson:"customer_email" json:"customerEmail"`
	Customer_phone   string             `bson:"customer_phone" json:"customerPhone"`
	Reservation_date string             `bson:"reservation_date" json:"reservationDate"`
	Time_slot        string             `bson:"time_slot" json:"timeSlot"`
	Selected_tables  []int              `bson:"selected_tables" json:"selectedTables"`
	Has_food         bool               `bson:"has_food" json:"hasFood"`
	Food_items       []FoodItem         `bson:"food_items" json:"foodItems"`
	Table_total      float64            `bson:"table_total" json:"tableTotal"`
	Food_total       float64            `bson:"food_total" json:"foodTotal"`
	Grand_total      float64            `bson:"grand_total" json:"grandTotal"`
	Status           string             `bson:"status" json:"status"`
	Special_requests string             `bson:"special_requests" json:"specialRequests"`
	Created_at       time.Time          `bson:"created_at" json:"createdAt"`
	Updated_at       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// SlotClaim is one claimed (date, slot, table) triple. A unique compound
// index on the three key fields is what serializes concurrent bookings:
// only one confirmed reservation can ever hold a given triple.
type SlotClaim struct {
	ID               primitive.ObjectID `bson:"_id"`
	Reservation_id   string             `bson:"reservation_id"`
	Reservation_date string             `bson:"reservation_date"`
	Time_slot        string             `bson:"time_slot"`
	Table_number     int                `bson:"table_number"`
}

// TerminalStatus reports whether s is one of the two end states.
func TerminalStatus(s string) bool {
	return s == StatusCompleted || s == StatusCancelled
}
