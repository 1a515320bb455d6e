package venues

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookmate/internal/shared/utils/response"
)

type Controller interface {
	CreateVenue(c *gin.Context)
	GetVenue(c *gin.Context)
	ListVenues(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateVenue(c *gin.Context) {
	var req CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.ValidationDetails(err))
		return
	}

	venue, err := ctrl.service.CreateVenue(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create venue", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Venue created successfully", venue.ToResponse(), nil)
}

func (ctrl *controller) GetVenue(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid venue ID", nil, err.Error())
		return
	}

	venue, err := ctrl.service.GetVenueByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrVenueNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get venue", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Venue retrieved successfully", venue.ToResponse(), nil)
}

func (ctrl *controller) ListVenues(c *gin.Context) {
	list, err := ctrl.service.ListVenues(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list venues", nil, err.Error())
		return
	}

	out := make([]VenueResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToResponse())
	}
	response.RespondJSON(c, "success", http.StatusOK, "Venues retrieved successfully", out, nil)
}
