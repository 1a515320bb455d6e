package tickets

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookmate/internal/shared/middleware"
	"bookmate/internal/shared/utils/response"
)

type Controller interface {
	GetSeatMap(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetSeatMap(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var scheduleID *int64
	if raw := c.Query("schedule_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid schedule ID", nil, err.Error())
			return
		}
		scheduleID = &parsed
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	views, err := ctrl.service.GetSeatMap(c.Request.Context(), eventID, scheduleID, userID, middleware.QueueToken(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrScheduleNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
		case errors.Is(err, ErrQueueTokenRequired):
			response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, response.AccessDenied{
				Error:   "QUEUE_TOKEN_REQUIRED",
				Message: err.Error(),
			})
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load seat map", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat map retrieved successfully", views, nil)
}
