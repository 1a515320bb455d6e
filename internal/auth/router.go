package auth

import (
	"bookmate/internal/shared/config"
	"bookmate/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(rg *gin.RouterGroup, controller Controller, cfg *config.Config) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", controller.Register)
		auth.POST("/login", controller.Login)
		auth.POST("/refresh", controller.Refresh)
		auth.POST("/logout", controller.Logout)

		me := auth.Group("/me")
		me.Use(middleware.JWTAuthWithConfig(cfg))
		{
			me.GET("", controller.Me)
			me.PUT("", controller.UpdateMe)
		}
	}
}
