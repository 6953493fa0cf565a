package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	controller "go-restaurant-reservation/controllers"
	"go-restaurant-reservation/middleware"
)

// ReservationRoutes registers the customer-facing surface: browsing slots and
// availability, committing a booking and polling reservation state.
func ReservationRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/table-reservations/slots", controller.GetSlotCalendar())
	incomingRoutes.GET("/table-reservations/availability", controller.GetAvailability())
	incomingRoutes.POST("/table-reservations", middleware.RateLimit(30, time.Minute), controller.CreateReservation())
	incomingRoutes.GET("/table-reservations", controller.ListReservations())
	incomingRoutes.GET("/table-reservations/:reservation_id", controller.GetReservation())
	incomingRoutes.GET("/table-reservations/ws", controller.HandleReservationSocket())
}

// ReservationAdminRoutes registers the status lifecycle actions. Register
// these after the authentication middleware; there is no customer
// self-cancellation path.
func ReservationAdminRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.PUT("/table-reservations/:reservation_id/status", controller.UpdateReservationStatus())
	incomingRoutes.PUT("/table-reservations/:reservation_id/cancel", controller.CancelReservation())
}
