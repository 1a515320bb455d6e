package bookings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookmate/internal/shared/middleware"
	"bookmate/internal/shared/utils/response"
)

type Controller interface {
	LockSeats(c *gin.Context)
	CreateBookings(c *gin.Context)
	MyBookings(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) LockSeats(c *gin.Context) {
	var req LockSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.ValidationDetails(err))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	result, err := ctrl.service.LockSeats(c.Request.Context(), userID, middleware.QueueToken(c), req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to lock seats")
		return
	}

	// Contended seats are a normal outcome, not an error status.
	response.RespondJSON(c, "success", http.StatusOK, result.Message, result, nil)
}

func (ctrl *controller) CreateBookings(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.ValidationDetails(err))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	created, err := ctrl.service.CreateBookings(c.Request.Context(), userID, middleware.QueueToken(c), req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to create booking")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking created successfully", created, nil)
}

func (ctrl *controller) MyBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	groups, err := ctrl.service.MyBookings(c.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list bookings", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", groups, nil)
}

func (ctrl *controller) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrScheduleNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrQueueTokenRequired):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, response.AccessDenied{
			Error:   "QUEUE_TOKEN_REQUIRED",
			Message: err.Error(),
		})
	case errors.Is(err, ErrSeatHeldByOther):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrSeatAlreadyBooked):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, fallback, nil, err.Error())
	}
}
