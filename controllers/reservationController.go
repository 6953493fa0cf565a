package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-restaurant-reservation/helpers"
	"go-restaurant-reservation/models"
	"go-restaurant-reservation/queue"
	"go-restaurant-reservation/repository"
)

var validate = validator.New()

var reservationStore repository.ReservationStore

// InitReservationStore wires the storage backend. Called from main with the
// mongo store; tests swap in the in-memory store.
func InitReservationStore(store repository.ReservationStore) {
	reservationStore = store
}

func newReservationID(date string) string {
	suffix := strings.ToUpper(strings.Split(uuid.NewString(), "-")[0])
	return fmt.Sprintf("RSV-%s-%s", strings.ReplaceAll(date, "-", ""), suffix)
}

// BuildReservation validates a booking request and assembles the reservation
// to persist. Totals are always recomputed here from the table selection and
// food items; whatever the client shipped is ignored. Storage is not touched.
func BuildReservation(req models.ReservationRequest) (*models.Reservation, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, err
	}
	if !helpers.ValidReservationDate(*req.Reservation_date) {
		return nil, fmt.Errorf("reservationDate %q is not a valid date, expected YYYY-MM-DD", *req.Reservation_date)
	}
	if !helpers.ValidTimeSlot(*req.Time_slot) {
		return nil, fmt.Errorf("timeSlot %q is not a recognized time slot", *req.Time_slot)
	}

	tables := helpers.NormalizeTables(req.Selected_tables)
	for _, table := range tables {
		if !helpers.ValidTableNumber(table) {
			return nil, fmt.Errorf("table %d is outside the table pool 1-%d", table, helpers.TableCount)
		}
	}

	foodItems := make([]models.FoodItem, 0)
	foodTotal := 0.0
	if req.Has_food {
		if len(req.Food_items) == 0 {
			return nil, errors.New("foodItems must not be empty when hasFood is set")
		}
		foodItems = req.Food_items
		foodTotal = helpers.FoodTotal(foodItems)
	}
	tableTotal := helpers.TableTotal(tables)

	reservation := models.Reservation{
		Customer_name:    *req.Customer_name,
		Customer_email:   *req.Customer_email,
		Customer_phone:   *req.Customer_phone,
		Reservation_date: *req.Reservation_date,
		Time_slot:        *req.Time_slot,
		Selected_tables:  tables,
		Has_food:         req.Has_food,
		Food_items:       foodItems,
		Table_total:      tableTotal,
		Food_total:       foodTotal,
		Grand_total:      tableTotal + foodTotal,
		Status:           models.StatusConfirmed,
		Special_requests: req.Special_requests,
	}
	return &reservation, nil
}

// GetSlotCalendar returns the fixed table pool and time slots so the
// storefront renders its picker from server truth.
func GetSlotCalendar() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"timeSlots":     helpers.TimeSlots,
			"tables":        helpers.TablePool(),
			"perTablePrice": helpers.TablePrice,
		})
	}
}

func GetAvailability() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		date := c.Query("date")
		timeSlot := c.Query("timeSlot")
		if !helpers.ValidReservationDate(date) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "date must be a valid YYYY-MM-DD date"})
			return
		}
		if !helpers.ValidTimeSlot(timeSlot) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": fmt.Sprintf("timeSlot %q is not a recognized time slot", timeSlot)})
			return
		}

		claimed, err := reservationStore.ClaimedTables(ctx, date, timeSlot)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "error occurred while checking availability"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":         true,
			"availableTables": helpers.AvailableTables(claimed),
		})
	}
}

func CreateReservation() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		var req models.ReservationRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		reservation, err := BuildReservation(req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		reservation.ID = primitive.NewObjectID()
		reservation.Reservation_id = newReservationID(reservation.Reservation_date)
		now, _ := time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		reservation.Created_at = now
		reservation.Updated_at = now

		if err := reservationStore.Create(ctx, reservation); err != nil {
			var unavailable *repository.TablesUnavailableError
			if errors.As(err, &unavailable) {
				c.JSON(http.StatusConflict, gin.H{
					"success":           false,
					"message":           unavailable.Error(),
					"unavailableTables": unavailable.Tables,
				})
				return
			}
			log.Printf("reservation commit failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "error occurred while creating the reservation"})
			return
		}

		go publishReservationEvent(queue.EventReservationCreated, *reservation)
		BroadcastReservationEvent("newReservation", *reservation)

		c.JSON(http.StatusCreated, gin.H{"success": true, "reservation": reservation})
	}
}

func ListReservations() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		filter := repository.ReservationFilter{
			Customer_email:   c.Query("customerEmail"),
			Reservation_date: c.Query("date"),
			Status:           c.Query("status"),
		}
		if filter.Reservation_date != "" && !helpers.ValidReservationDate(filter.Reservation_date) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "date must be a valid YYYY-MM-DD date"})
			return
		}

		reservations, err := reservationStore.List(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "error occurred while listing reservations"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "reservations": reservations})
	}
}

func GetReservation() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		reservation, err := reservationStore.FindByID(ctx, c.Param("reservation_id"))
		if err != nil {
			if errors.Is(err, repository.ErrReservationNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "reservation not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "error occurred while fetching the reservation"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "reservation": reservation})
	}
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// UpdateReservationStatus moves a confirmed reservation to completed or
// cancelled. Terminal states are final; anything else is a stale admin view.
func UpdateReservationStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusUpdateRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		transitionReservation(c, req.Status)
	}
}

// CancelReservation is the dedicated admin cancel action. Tables free up on
// the very next availability read.
func CancelReservation() gin.HandlerFunc {
	return func(c *gin.Context) {
		transitionReservation(c, models.StatusCancelled)
	}
}

func transitionReservation(c *gin.Context, target string) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	if !models.TerminalStatus(target) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": fmt.Sprintf("status must be %q or %q", models.StatusCompleted, models.StatusCancelled)})
		return
	}

	now, _ := time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
	reservation, err := reservationStore.UpdateStatus(ctx, c.Param("reservation_id"), target, now)
	if err != nil {
		var invalid *repository.InvalidTransitionError
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "reservation not found"})
		case errors.As(err, &invalid):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": invalid.Error()})
		default:
			log.Printf("status transition failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "error occurred while updating the reservation status"})
		}
		return
	}

	go publishReservationEvent(queue.EventReservationStatusChanged, *reservation)
	BroadcastReservationEvent("reservationStatus", *reservation)

	c.JSON(http.StatusOK, gin.H{"success": true, "reservation": reservation})
}

func publishReservationEvent(event string, reservation models.Reservation) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = queue.PublishReservationEvent(ctx, queue.ReservationEvent{
		Event:           event,
		ReservationID:   reservation.Reservation_id,
		CustomerEmail:   reservation.Customer_email,
		ReservationDate: reservation.Reservation_date,
		TimeSlot:        reservation.Time_slot,
		SelectedTables:  reservation.Selected_tables,
		Status:          reservation.Status,
		GrandTotal:      reservation.Grand_total,
		OccurredAt:      time.Now().UTC(),
	})
}
