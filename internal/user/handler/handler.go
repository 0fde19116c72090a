// Package handler provides HTTP handlers for user endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/task_manager/internal/auth"
	userModel "github.com/festy23/task_manager/internal/user/model"
	"github.com/festy23/task_manager/internal/user/service"
	"github.com/festy23/task_manager/internal/validation"
)

// Handler handles HTTP requests for user endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new user handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// SignUp handles POST /auth/sign_up request.
func (h *Handler) SignUp(c *gin.Context) {
	var req userModel.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			validationResponse(c, vErr)
			return
		}
		h.logger.Errorw("error registering user", "username", req.Username, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// LogIn handles POST /auth/log_in request.
func (h *Handler) LogIn(c *gin.Context) {
	var req userModel.LogInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, userModel.ErrInvalidCredentials) {
			errorResponse(c, "INVALID_CREDENTIALS", "the credentials provided were invalid", http.StatusUnauthorized)
			return
		}
		h.logger.Errorw("error logging in", "username", req.Username, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ChangePassword handles POST /auth/password request.
func (h *Handler) ChangePassword(c *gin.Context) {
	principal, ok := auth.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "authentication required", http.StatusUnauthorized)
		return
	}

	var req userModel.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	err := h.service.ChangePassword(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		var vErr *validation.Error
		switch {
		case errors.As(err, &vErr):
			validationResponse(c, vErr)
		case errors.Is(err, userModel.ErrInvalidCredentials):
			errorResponse(c, "INVALID_CREDENTIALS", "password is invalid", http.StatusUnauthorized)
		case errors.Is(err, userModel.ErrUserNotFound):
			errorResponse(c, "NOT_FOUND", "user not found", http.StatusNotFound)
		default:
			h.logger.Errorw("error changing password", "user_id", principal.UserID, "error", err)
			errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
