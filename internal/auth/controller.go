package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookmate/internal/shared/middleware"
	"bookmate/internal/shared/utils/response"
)

type Controller interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Refresh(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
	UpdateMe(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, response.ValidationDetails(err))
		return
	}

	profile, err := ctrl.service.Register(c.Request.Context(), req)
	if err != nil {
		respondAuthError(c, err, "Failed to register user")
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "User registered successfully", profile, nil)
}

func (ctrl *controller) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, response.ValidationDetails(err))
		return
	}

	pair, err := ctrl.service.Login(c.Request.Context(), req)
	if err != nil {
		respondAuthError(c, err, "Failed to log in")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Logged in successfully", pair, nil)
}

func (ctrl *controller) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, response.ValidationDetails(err))
		return
	}

	pair, err := ctrl.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondAuthError(c, err, "Failed to refresh tokens")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tokens refreshed successfully", pair, nil)
}

func (ctrl *controller) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, response.ValidationDetails(err))
		return
	}

	if err := ctrl.service.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to log out", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Logged out successfully", nil, nil)
}

func (ctrl *controller) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	profile, err := ctrl.service.Me(c.Request.Context(), userID)
	if err != nil {
		respondAuthError(c, err, "Failed to get profile")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Profile retrieved successfully", profile, nil)
}

func (ctrl *controller) UpdateMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, response.ValidationDetails(err))
		return
	}

	profile, err := ctrl.service.UpdateMe(c.Request.Context(), userID, req)
	if err != nil {
		respondAuthError(c, err, "Failed to update profile")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Profile updated successfully", profile, nil)
}

func respondAuthError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrUserAlreadyExists):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidRefreshToken):
		response.RespondJSON(c, "error", http.StatusUnauthorized, err.Error(), nil, nil)
	case errors.Is(err, ErrUserInactive):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrUserNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, fallback, nil, err.Error())
	}
}
