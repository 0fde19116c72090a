// Package handler provides HTTP handlers for statistics endpoints.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/task_manager/internal/auth"
	"github.com/festy23/task_manager/internal/statistics/service"
	teamModel "github.com/festy23/task_manager/internal/team/model"
)

// redirectDashboard names the fallback page for team-level failures.
const redirectDashboard = "dashboard"

// Handler handles HTTP requests for statistics endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new statistics handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// MemberWorkload handles GET /teams/:team_id/statistics/members request.
func (h *Handler) MemberWorkload(c *gin.Context) {
	principal, teamID, ok := h.teamRequest(c)
	if !ok {
		return
	}

	resp, err := h.service.MemberWorkload(c.Request.Context(), principal.UserID, teamID)
	if err != nil {
		h.respondError(c, err, "error loading member workload")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// TeamTaskStatistics handles GET /teams/:team_id/statistics/tasks request.
func (h *Handler) TeamTaskStatistics(c *gin.Context) {
	principal, teamID, ok := h.teamRequest(c)
	if !ok {
		return
	}

	resp, err := h.service.TeamTaskStatistics(c.Request.Context(), principal.UserID, teamID)
	if err != nil {
		h.respondError(c, err, "error loading team task statistics")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// teamRequest extracts the authenticated principal and the team_id path
// parameter, answering the error response itself when either is missing.
func (h *Handler) teamRequest(c *gin.Context) (auth.Principal, int64, bool) {
	principal, ok := auth.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized)
		return auth.Principal{}, 0, false
	}

	teamID, err := strconv.ParseInt(c.Param("team_id"), 10, 64)
	if err != nil {
		errorResponse(c, "NOT_FOUND", "team not found", redirectDashboard, http.StatusNotFound)
		return auth.Principal{}, 0, false
	}

	return principal, teamID, true
}

func (h *Handler) respondError(c *gin.Context, err error, logMessage string) {
	switch {
	case errors.Is(err, teamModel.ErrTeamNotFound):
		errorResponse(c, "NOT_FOUND", "team not found", redirectDashboard, http.StatusNotFound)
	case errors.Is(err, teamModel.ErrNotMember):
		errorResponse(c, "FORBIDDEN", "you are not a member of this team", redirectDashboard, http.StatusForbidden)
	default:
		h.logger.Errorw(logMessage, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", "", http.StatusInternalServerError)
	}
}
