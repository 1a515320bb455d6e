package banners

import (
	"bookmate/internal/shared/config"
	"bookmate/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBannerRoutes(rg *gin.RouterGroup, controller Controller, cfg *config.Config) {
	// Public read route
	banners := rg.Group("/banners")
	{
		banners.GET("", controller.ListActive)
	}

	// Admin management routes
	admin := rg.Group("/banners")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateBanner)
		admin.PUT("/:id", controller.UpdateBanner)
		admin.DELETE("/:id", controller.DeleteBanner)
	}
}
