// Package main provides the entry point for the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/festy23/task_manager/internal/auth"
	appConfig "github.com/festy23/task_manager/internal/config"
	"github.com/festy23/task_manager/internal/database"
	"github.com/festy23/task_manager/internal/health"
	"github.com/festy23/task_manager/internal/middleware"
	statisticsRouter "github.com/festy23/task_manager/internal/statistics/router"
	taskRouter "github.com/festy23/task_manager/internal/task/router"
	teamRouter "github.com/festy23/task_manager/internal/team/router"
	userRouter "github.com/festy23/task_manager/internal/user/router"
	"github.com/festy23/task_manager/pkg/logger"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	cfg := appConfig.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	appLogger, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	gin.SetMode(cfg.GinMode)

	db, err := database.New()
	if err != nil {
		appLogger.Fatalw("failed to connect to database", "error", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			appLogger.Errorw("failed to close database connection", "error", err)
		}
	}()

	if err := database.Migrate(db); err != nil {
		appLogger.Fatalw("failed to run migrations", "error", err)
	}

	tokens := auth.New(cfg.Auth)

	r := gin.New()
	r.Use(middleware.Recovery(appLogger))
	r.Use(middleware.Logger(appLogger))

	userRouter.RegisterRoutes(r, db, tokens, appLogger)
	teamRouter.RegisterRoutes(r, db, tokens, appLogger, cfg.Task.AuditMaxEntriesPerTeam)
	taskRouter.RegisterRoutes(r, db, tokens, appLogger, cfg.Task)
	statisticsRouter.RegisterRoutes(r, db, tokens, appLogger)

	healthHandler := health.New(db, appLogger)
	r.GET("/health", healthHandler.Check)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Infow("starting HTTP server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalw("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Infow("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorw("forced server shutdown", "error", err)
	}

	appLogger.Infow("server stopped")
}
