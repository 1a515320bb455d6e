package queue

import (
	"bookmate/internal/shared/config"
	"bookmate/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupQueueRoutes(rg *gin.RouterGroup, controller Controller, cfg *config.Config) {
	queue := rg.Group("/queue")
	queue.Use(middleware.JWTAuthWithConfig(cfg))
	{
		queue.POST("/enter/:event_id", controller.Enter)
		queue.GET("/status/:event_id", controller.Status)
	}
}
