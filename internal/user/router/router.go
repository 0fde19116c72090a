// Package router provides user module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/task_manager/internal/auth"
	"github.com/festy23/task_manager/internal/user/handler"
	"github.com/festy23/task_manager/internal/user/repository"
	"github.com/festy23/task_manager/internal/user/service"
)

// RegisterRoutes registers user module routes.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, tokens *auth.Service, logger *zap.SugaredLogger) {
	repo := repository.New(db, logger)
	svc := service.New(repo, tokens, logger)
	h := handler.New(svc, logger)

	r.POST("/auth/sign_up", h.SignUp)
	r.POST("/auth/log_in", h.LogIn)
	r.POST("/auth/password", tokens.RequireAuth(), h.ChangePassword)
}
