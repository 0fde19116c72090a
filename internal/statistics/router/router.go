// Package router provides statistics module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/task_manager/internal/auth"
	"github.com/festy23/task_manager/internal/statistics/handler"
	"github.com/festy23/task_manager/internal/statistics/repository"
	"github.com/festy23/task_manager/internal/statistics/service"
	teamRepository "github.com/festy23/task_manager/internal/team/repository"
)

// RegisterRoutes registers statistics module routes.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, tokens *auth.Service, logger *zap.SugaredLogger) {
	repo := repository.New(db, logger)
	teams := teamRepository.New(db, logger)
	svc := service.New(repo, teams, logger)
	h := handler.New(svc, logger)

	stats := r.Group("/teams/:team_id/statistics", tokens.RequireAuth())
	{
		stats.GET("/members", h.MemberWorkload)
		stats.GET("/tasks", h.TeamTaskStatistics)
	}
}
