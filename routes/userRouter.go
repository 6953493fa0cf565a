package routes

import (
	controller "go-restaurant-reservation/controllers"

	"github.com/gin-gonic/gin"
)

func UserRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/users/signup", controller.SignUp())
	incomingRoutes.POST("/users/login", controller.Login())
}

// UserAdminRoutes holds the user reads that need a valid token.
func UserAdminRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/users/:user_id", controller.GetUser())
}
