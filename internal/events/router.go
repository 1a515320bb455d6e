package events

import (
	"bookmate/internal/shared/config"
	"bookmate/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(rg *gin.RouterGroup, controller Controller, cfg *config.Config) {
	// Public read routes
	events := rg.Group("/events")
	{
		events.GET("", controller.ListEvents)
		events.GET("/:id", controller.GetEventDetail)
	}

	// Admin management routes
	admin := rg.Group("/events")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateEvent)
		admin.PUT("/:id", controller.UpdateEvent)
		admin.POST("/:id/schedules", controller.AddSchedule)
		admin.POST("/:id/seat-grades", controller.AddSeatGrade)
	}
}
