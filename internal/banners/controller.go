package banners

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookmate/internal/shared/utils/response"
)

type Controller interface {
	ListActive(c *gin.Context)
	CreateBanner(c *gin.Context)
	UpdateBanner(c *gin.Context)
	DeleteBanner(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) ListActive(c *gin.Context) {
	list, err := ctrl.service.ListActive(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list banners", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Banners retrieved successfully", list, nil)
}

func (ctrl *controller) CreateBanner(c *gin.Context) {
	var req CreateBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, response.ValidationDetails(err))
		return
	}

	banner, err := ctrl.service.CreateBanner(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create banner", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Banner created successfully", banner, nil)
}

func (ctrl *controller) UpdateBanner(c *gin.Context) {
	id, ok := parseBannerID(c)
	if !ok {
		return
	}

	var req UpdateBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, response.ValidationDetails(err))
		return
	}

	banner, err := ctrl.service.UpdateBanner(c.Request.Context(), id, req)
	if err != nil {
		respondBannerError(c, err, "Failed to update banner")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Banner updated successfully", banner, nil)
}

func (ctrl *controller) DeleteBanner(c *gin.Context) {
	id, ok := parseBannerID(c)
	if !ok {
		return
	}

	if err := ctrl.service.DeleteBanner(c.Request.Context(), id); err != nil {
		respondBannerError(c, err, "Failed to delete banner")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Banner deleted successfully", nil, nil)
}

func parseBannerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid banner ID", nil, err.Error())
		return 0, false
	}
	return id, true
}

func respondBannerError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, ErrBannerNotFound) {
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "error", http.StatusInternalServerError, fallback, nil, err.Error())
}
