package tickets

import (
	"bookmate/internal/shared/config"
	"bookmate/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupTicketRoutes mounts the seat map under the events resource. The
// route param is named :id to line up with the event routes sharing the
// /events prefix.
func SetupTicketRoutes(rg *gin.RouterGroup, controller Controller, cfg *config.Config) {
	events := rg.Group("/events")
	events.Use(middleware.JWTAuthWithConfig(cfg))
	{
		events.GET("/:id/tickets", controller.GetSeatMap)
	}
}
