package main

import (
	"github.com/robfig/cron/v3"
	"github.com/taskhive/backend/internal/config"
	"github.com/taskhive/backend/internal/handlers"
	"github.com/taskhive/backend/internal/models"
	"github.com/taskhive/backend/internal/services"
	"github.com/taskhive/backend/internal/utils"
	"github.com/taskhive/backend/pkg/logger"
)

// appServices holds the initialized handlers and background schedulers.
type appServices struct {
	retentionScheduler *cron.Cron

	authHandler     *handlers.AuthHandler
	userHandler     *handlers.UserHandler
	projectHandler  *handlers.ProjectHandler
	taskHandler     *handlers.TaskHandler
	commentHandler  *handlers.CommentHandler
	activityHandler *handlers.ActivityHandler
	healthHandler   *handlers.HealthHandler
}

// bootstrap initializes the database, seeds the first admin and starts
// background schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	services.InitActivityLogger(db)
	retentionScheduler := services.StartRetentionScheduler(db, cfg.Activity.RetentionDays)

	authService := services.NewAuthService(db, cfg.JWT.ExpireHour)
	if err := authService.EnsureAdmin(cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed admin account")
	}

	return &appServices{
		retentionScheduler: retentionScheduler,
		authHandler:        handlers.NewAuthHandler(db, cfg.JWT.ExpireHour),
		userHandler:        handlers.NewUserHandler(db),
		projectHandler:     handlers.NewProjectHandler(db),
		taskHandler:        handlers.NewTaskHandler(db),
		commentHandler:     handlers.NewCommentHandler(db),
		activityHandler:    handlers.NewActivityHandler(db),
		healthHandler:      handlers.NewHealthHandler(),
	}
}

// shutdown stops background schedulers.
func (s *appServices) shutdown() {
	if s.retentionScheduler != nil {
		s.retentionScheduler.Stop()
	}
	logger.Info().Msg("All schedulers stopped")
}
