// Package handler provides HTTP handlers for task endpoints.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/task_manager/internal/auth"
	taskModel "github.com/festy23/task_manager/internal/task/model"
	"github.com/festy23/task_manager/internal/task/service"
	teamModel "github.com/festy23/task_manager/internal/team/model"
	"github.com/festy23/task_manager/internal/validation"
)

// Handler handles HTTP requests for task endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new task handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// CreateTask handles POST /teams/:team_id/tasks request.
func (h *Handler) CreateTask(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	teamID, ok := h.pathID(c, "team_id", "team not found")
	if !ok {
		return
	}

	var req taskModel.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", "", 0, http.StatusBadRequest)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), principal.UserID, teamID, &req)
	if err != nil {
		h.respondError(c, err, "error creating task")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// TeamTasks handles GET /teams/:team_id/tasks request.
func (h *Handler) TeamTasks(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	teamID, ok := h.pathID(c, "team_id", "team not found")
	if !ok {
		return
	}

	tasks, err := h.service.TeamTasks(
		c.Request.Context(),
		principal.UserID,
		teamID,
		c.Query("q"),
		c.Query("order_by"),
		c.Query("assigned_to"),
	)
	if err != nil {
		h.respondError(c, err, "error listing team tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GetTask handles GET /tasks/:task_id request.
func (h *Handler) GetTask(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	taskID, ok := h.pathID(c, "task_id", "task not found")
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), principal.UserID, taskID)
	if err != nil {
		h.respondError(c, err, "error loading task")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateTask handles PUT /tasks/:task_id request.
func (h *Handler) UpdateTask(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	taskID, ok := h.pathID(c, "task_id", "task not found")
	if !ok {
		return
	}

	var req taskModel.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", "", 0, http.StatusBadRequest)
		return
	}

	resp, err := h.service.Edit(c.Request.Context(), principal.UserID, taskID, &req)
	if err != nil {
		h.respondError(c, err, "error editing task")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteTask handles DELETE /tasks/:task_id request.
func (h *Handler) DeleteTask(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	taskID, ok := h.pathID(c, "task_id", "task not found")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), principal.UserID, taskID); err != nil {
		h.respondError(c, err, "error deleting task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

// ToggleCompletion handles PATCH /tasks/:task_id/completion request.
func (h *Handler) ToggleCompletion(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	taskID, ok := h.pathID(c, "task_id", "task not found")
	if !ok {
		return
	}

	var req taskModel.ToggleCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", "", 0, http.StatusBadRequest)
		return
	}

	resp, err := h.service.ToggleCompletion(c.Request.Context(), principal.UserID, taskID, *req.Completed)
	if err != nil {
		h.respondError(c, err, "error toggling completion")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SearchTasks handles GET /tasks request.
func (h *Handler) SearchTasks(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var teamID int64
	if raw := c.Query("team"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errorResponse(c, "NOT_FOUND", "team not found", taskModel.RedirectDashboard, 0, http.StatusNotFound)
			return
		}
		teamID = parsed
	}

	tasks, err := h.service.Search(c.Request.Context(), principal.UserID, c.Query("q"), c.Query("order_by"), teamID)
	if err != nil {
		h.respondError(c, err, "error searching tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *Handler) principal(c *gin.Context) (auth.Principal, bool) {
	principal, ok := auth.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "authentication required", "login", 0, http.StatusUnauthorized)
		return auth.Principal{}, false
	}
	return principal, true
}

// pathID parses a numeric path parameter; an unparsable value behaves like
// a missing resource.
func (h *Handler) pathID(c *gin.Context, param, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		errorResponse(c, "NOT_FOUND", message, taskModel.RedirectDashboard, 0, http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// respondError maps service errors onto the envelope.
func (h *Handler) respondError(c *gin.Context, err error, logMessage string) {
	var vErr *validation.Error
	var forbidden *taskModel.ForbiddenError
	switch {
	case errors.As(err, &vErr):
		validationResponse(c, vErr)
	case errors.As(err, &forbidden):
		errorResponse(c, "FORBIDDEN", "you may not perform this action", forbidden.Redirect, forbidden.TeamID, http.StatusForbidden)
	case errors.Is(err, taskModel.ErrTaskNotFound):
		errorResponse(c, "NOT_FOUND", "task not found", taskModel.RedirectDashboard, 0, http.StatusNotFound)
	case errors.Is(err, teamModel.ErrTeamNotFound):
		errorResponse(c, "NOT_FOUND", "team not found", taskModel.RedirectDashboard, 0, http.StatusNotFound)
	default:
		h.logger.Errorw(logMessage, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", "", 0, http.StatusInternalServerError)
	}
}
