package bookings

import (
	"bookmate/internal/shared/config"
	"bookmate/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(rg *gin.RouterGroup, controller Controller, cfg *config.Config) {
	seats := rg.Group("/seats")
	seats.Use(middleware.JWTAuthWithConfig(cfg))
	{
		seats.POST("/lock", controller.LockSeats)
	}

	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(cfg))
	{
		bookings.POST("", controller.CreateBookings)
		bookings.GET("/my", controller.MyBookings)
	}
}
