// Package router provides task module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditRepository "github.com/festy23/task_manager/internal/audit/repository"
	"github.com/festy23/task_manager/internal/auth"
	"github.com/festy23/task_manager/internal/config"
	"github.com/festy23/task_manager/internal/task/handler"
	"github.com/festy23/task_manager/internal/task/repository"
	"github.com/festy23/task_manager/internal/task/service"
	teamRepository "github.com/festy23/task_manager/internal/team/repository"
	userRepository "github.com/festy23/task_manager/internal/user/repository"
)

// RegisterRoutes registers task module routes.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, tokens *auth.Service, logger *zap.SugaredLogger, cfg config.TaskConfig) {
	svc := service.New(
		repository.New(db, logger),
		teamRepository.New(db, logger),
		userRepository.New(db, logger),
		auditRepository.New(db, logger, cfg.AuditMaxEntriesPerTeam),
		db,
		logger,
		cfg.MaxDescriptionLength,
		cfg.AuditMaxEntriesPerTeam,
	)
	h := handler.New(svc, logger)

	r.POST("/teams/:team_id/tasks", tokens.RequireAuth(), h.CreateTask)
	r.GET("/teams/:team_id/tasks", tokens.RequireAuth(), h.TeamTasks)

	tasks := r.Group("/tasks", tokens.RequireAuth())
	tasks.GET("", h.SearchTasks)
	tasks.GET("/:task_id", h.GetTask)
	tasks.PUT("/:task_id", h.UpdateTask)
	tasks.DELETE("/:task_id", h.DeleteTask)
	tasks.PATCH("/:task_id/completion", h.ToggleCompletion)
}
