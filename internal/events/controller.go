package events

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookmate/internal/shared/utils/response"
)

type Controller interface {
	ListEvents(c *gin.Context)
	GetEventDetail(c *gin.Context)
	CreateEvent(c *gin.Context)
	UpdateEvent(c *gin.Context)
	AddSchedule(c *gin.Context)
	AddSeatGrade(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) ListEvents(c *gin.Context) {
	var query EventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.ValidationDetails(err))
		return
	}

	result, err := ctrl.service.ListEvents(c.Request.Context(), query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list events", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Events retrieved successfully", result, nil)
}

func (ctrl *controller) GetEventDetail(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	detail, err := ctrl.service.GetEventDetail(c.Request.Context(), id)
	if err != nil {
		respondEventError(c, err, "Failed to get event")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event retrieved successfully", detail, nil)
}

func (ctrl *controller) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, response.ValidationDetails(err))
		return
	}

	event, err := ctrl.service.CreateEvent(c.Request.Context(), req)
	if err != nil {
		respondEventError(c, err, "Failed to create event")
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Event created successfully", event, nil)
}

func (ctrl *controller) UpdateEvent(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, response.ValidationDetails(err))
		return
	}

	event, err := ctrl.service.UpdateEvent(c.Request.Context(), id, req)
	if err != nil {
		respondEventError(c, err, "Failed to update event")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event updated successfully", event, nil)
}

func (ctrl *controller) AddSchedule(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, response.ValidationDetails(err))
		return
	}

	schedule, err := ctrl.service.AddSchedule(c.Request.Context(), id, req)
	if err != nil {
		respondEventError(c, err, "Failed to add schedule")
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Schedule added successfully", schedule, nil)
}

func (ctrl *controller) AddSeatGrade(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	var req CreateSeatGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, response.ValidationDetails(err))
		return
	}

	grade, err := ctrl.service.AddSeatGrade(c.Request.Context(), id, req)
	if err != nil {
		respondEventError(c, err, "Failed to add seat grade")
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Seat grade added successfully", grade, nil)
}

func parseEventID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return 0, false
	}
	return id, true
}

func respondEventError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrScheduleNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrInvalidReceiptMethod):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, fallback, nil, err.Error())
	}
}
