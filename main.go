package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go-restaurant-reservation/controllers"
	"go-restaurant-reservation/database"
	"go-restaurant-reservation/middleware"
	"go-restaurant-reservation/repository"
	"go-restaurant-reservation/routes"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	store := repository.NewMongoStore(database.Client)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatalf("failed to create reservation indexes: %v", err)
	}
	cancel()
	controllers.InitReservationStore(store)

	middleware.InitRateLimiter(database.NewRedisClient())

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	allowOrigins := []string{"http://localhost:9000"}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		allowOrigins = strings.Split(origins, ",")
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "page not found"})
	})

	routes.UserRoutes(router)
	routes.ReservationRoutes(router)

	router.Use(middleware.Authentication())
	routes.UserAdminRoutes(router)
	routes.ReservationAdminRoutes(router)

	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
