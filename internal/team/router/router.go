// Package router provides team module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditRepository "github.com/festy23/task_manager/internal/audit/repository"
	"github.com/festy23/task_manager/internal/auth"
	taskRepository "github.com/festy23/task_manager/internal/task/repository"
	"github.com/festy23/task_manager/internal/team/handler"
	"github.com/festy23/task_manager/internal/team/repository"
	"github.com/festy23/task_manager/internal/team/service"
	userRepository "github.com/festy23/task_manager/internal/user/repository"
)

// RegisterRoutes registers team module routes. auditMax caps per-team
// audit history.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, tokens *auth.Service, logger *zap.SugaredLogger, auditMax int) {
	svc := service.New(
		repository.New(db, logger),
		userRepository.New(db, logger),
		taskRepository.New(db, logger),
		auditRepository.New(db, logger, auditMax),
		db,
		logger,
		auditMax,
	)
	h := handler.New(svc, logger)

	teams := r.Group("/teams", tokens.RequireAuth())
	teams.POST("", h.CreateTeam)
	teams.GET("", h.Dashboard)
	teams.GET("/:team_id", h.GetTeam)
	teams.DELETE("/:team_id", h.DeleteTeam)
	teams.POST("/:team_id/invites", h.Invite)
	teams.POST("/:team_id/join", h.Accept)
	teams.POST("/:team_id/decline", h.Decline)
	teams.POST("/:team_id/leave", h.Leave)
	teams.DELETE("/:team_id/members/:username", h.RemoveMember)
	teams.GET("/:team_id/audit_log", h.AuditLog)
}
