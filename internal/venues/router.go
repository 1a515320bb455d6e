package venues

import (
	"bookmate/internal/shared/config"
	"bookmate/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupVenueRoutes(rg *gin.RouterGroup, controller Controller, cfg *config.Config) {
	// Public read routes
	venues := rg.Group("/venues")
	{
		venues.GET("", controller.ListVenues)
		venues.GET("/:id", controller.GetVenue)
	}

	// Admin management routes
	admin := rg.Group("/venues")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateVenue)
	}
}
