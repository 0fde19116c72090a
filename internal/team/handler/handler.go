// Package handler provides HTTP handlers for team endpoints.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/task_manager/internal/auth"
	teamModel "github.com/festy23/task_manager/internal/team/model"
	"github.com/festy23/task_manager/internal/team/service"
	"github.com/festy23/task_manager/internal/validation"
)

// redirectDashboard names the fallback page for team-level failures.
// redirectTeamPage sends members back to the team they were viewing.
const (
	redirectDashboard = "dashboard"
	redirectTeamPage  = "team_page"
)

// Handler handles HTTP requests for team endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new team handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// CreateTeam handles POST /teams request.
func (h *Handler) CreateTeam(c *gin.Context) {
	principal, ok := auth.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "authentication required", "login", http.StatusUnauthorized)
		return
	}

	var req teamModel.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", "", http.StatusBadRequest)
		return
	}

	resp, err := h.service.CreateTeam(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		h.respondError(c, err, "error creating team")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Dashboard handles GET /teams request.
func (h *Handler) Dashboard(c *gin.Context) {
	principal, ok := auth.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "authentication required", "login", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.Dashboard(c.Request.Context(), principal.UserID)
	if err != nil {
		h.respondError(c, err, "error loading dashboard")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetTeam handles GET /teams/:team_id request.
func (h *Handler) GetTeam(c *gin.Context) {
	principal, teamID, ok := h.teamRequest(c)
	if !ok {
		return
	}

	resp, err := h.service.GetTeam(c.Request.Context(), principal.UserID, teamID)
	if err != nil {
		h.respondError(c, err, "error loading team")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Invite handles POST /teams/:team_id/invites request.
func (h *Handler) Invite(c *gin.Context) {
	principal, teamID, ok := h.teamRequest(c)
	if !ok {
		return
	}

	var req teamModel.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", "", http.StatusBadRequest)
		return
	}

	if err := h.service.Invite(c.Request.Context(), principal.UserID, teamID, &req); err != nil {
		h.respondError(c, err, "error sending invites")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "invites sent"})
}

// Accept handles POST /teams/:team_id/join request.
func (h *Handler) Accept(c *gin.Context) {
	principal, teamID, ok := h.teamRequest(c)
	if !ok {
		return
	}

	if err := h.service.Accept(c.Request.Context(), principal.UserID, teamID); err != nil {
		h.respondError(c, err, "error accepting invite")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "joined the team"})
}

// Decline handles POST /teams/:team_id/decline request.
func (h *Handler) Decline(c *gin.Context) {
	principal, teamID, ok := h.teamRequest(c)
	if !ok {
		return
	}

	if err := h.service.Decline(c.Request.Context(), principal.UserID, teamID); err != nil {
		h.respondError(c, err, "error declining invite")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "invite declined"})
}

// Leave handles POST /teams/:team_id/leave request.
func (h *Handler) Leave(c *gin.Context) {
	principal, teamID, ok := h.teamRequest(c)
	if !ok {
		return
	}

	if err := h.service.Leave(c.Request.Context(), principal.UserID, teamID); err != nil {
		h.respondError(c, err, "error leaving team")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "left the team"})
}

// RemoveMember handles DELETE /teams/:team_id/members/:username request.
func (h *Handler) RemoveMember(c *gin.Context) {
	principal, teamID, ok := h.teamRequest(c)
	if !ok {
		return
	}

	username := c.Param("username")
	if err := h.service.RemoveMember(c.Request.Context(), principal.UserID, teamID, username); err != nil {
		h.respondError(c, err, "error removing member")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "member removed"})
}

// DeleteTeam handles DELETE /teams/:team_id request.
func (h *Handler) DeleteTeam(c *gin.Context) {
	principal, teamID, ok := h.teamRequest(c)
	if !ok {
		return
	}

	if err := h.service.DeleteTeam(c.Request.Context(), principal.UserID, teamID); err != nil {
		h.respondError(c, err, "error deleting team")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "team deleted"})
}

// AuditLog handles GET /teams/:team_id/audit_log request.
func (h *Handler) AuditLog(c *gin.Context) {
	principal, teamID, ok := h.teamRequest(c)
	if !ok {
		return
	}

	entries, err := h.service.AuditLog(c.Request.Context(), principal.UserID, teamID)
	if err != nil {
		// A member without leader rights goes back to the team page,
		// not the dashboard.
		if errors.Is(err, teamModel.ErrNotLeader) {
			forbiddenTeamPageResponse(c, "only the team leader may view the audit log", teamID)
			return
		}
		h.respondError(c, err, "error loading audit log")
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// teamRequest extracts the principal and the team id from the request.
// An unparsable id behaves like a missing team.
func (h *Handler) teamRequest(c *gin.Context) (auth.Principal, int64, bool) {
	principal, ok := auth.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "authentication required", "login", http.StatusUnauthorized)
		return auth.Principal{}, 0, false
	}

	teamID, err := strconv.ParseInt(c.Param("team_id"), 10, 64)
	if err != nil {
		errorResponse(c, "NOT_FOUND", "team not found", redirectDashboard, http.StatusNotFound)
		return auth.Principal{}, 0, false
	}

	return principal, teamID, true
}

// respondError maps service errors onto the envelope.
func (h *Handler) respondError(c *gin.Context, err error, logMessage string) {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		validationResponse(c, vErr)
	case errors.Is(err, teamModel.ErrTeamNotFound):
		errorResponse(c, "NOT_FOUND", "team not found", redirectDashboard, http.StatusNotFound)
	case errors.Is(err, teamModel.ErrInviteNotFound):
		errorResponse(c, "NOT_FOUND", "invite not found", redirectDashboard, http.StatusNotFound)
	case errors.Is(err, teamModel.ErrMemberNotFound):
		errorResponse(c, "NOT_FOUND", "member not found", redirectDashboard, http.StatusNotFound)
	case errors.Is(err, teamModel.ErrNotMember):
		errorResponse(c, "FORBIDDEN", "you are not a member of this team", redirectDashboard, http.StatusForbidden)
	case errors.Is(err, teamModel.ErrNotLeader):
		errorResponse(c, "FORBIDDEN", "only the team leader may do this", redirectDashboard, http.StatusForbidden)
	case errors.Is(err, teamModel.ErrLeaderCannotLeave):
		errorResponse(c, "FORBIDDEN", "the team leader cannot leave the team", redirectDashboard, http.StatusForbidden)
	case errors.Is(err, teamModel.ErrLeaderCannotBeRemoved):
		errorResponse(c, "FORBIDDEN", "the team leader cannot be removed", redirectDashboard, http.StatusForbidden)
	case errors.Is(err, teamModel.ErrAlreadyMember):
		errorResponse(c, "CONFLICT", "user is already a team member", redirectDashboard, http.StatusConflict)
	default:
		h.logger.Errorw(logMessage, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", "", http.StatusInternalServerError)
	}
}
