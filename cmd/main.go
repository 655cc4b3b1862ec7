package main

import (
	"context"
	"fmt"
	"os"

	"github.com/vallmere/sitetrack-backend/internal/config"
	"github.com/vallmere/sitetrack-backend/internal/db"
	"github.com/vallmere/sitetrack-backend/internal/handlers"
	"github.com/vallmere/sitetrack-backend/internal/logger"
	"github.com/vallmere/sitetrack-backend/internal/middleware"
	"github.com/vallmere/sitetrack-backend/internal/repos"
	"github.com/vallmere/sitetrack-backend/internal/server"
	"github.com/vallmere/sitetrack-backend/internal/services"
	"github.com/vallmere/sitetrack-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	log.Info("Loading configuration from main...")
	configPath := utils.GetEnv("CONFIG_PATH", "config.yaml", log)
	cfg, err := config.Load(configPath, log)
	if err != nil {
		log.Error("Could not load config", "error", err)
		os.Exit(1)
	}

	// Database
	dbService, err := db.NewDatabaseService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = dbService.AutoMigrateAll(); err != nil {
		log.Warn("Auto migration failed", "error", err)
	}
	theDB := dbService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	projectRepo := repos.NewProjectRepo(theDB, log)
	activityRepo := repos.NewActivityRepo(theDB, log)
	scheduleItemRepo := repos.NewScheduleItemRepo(theDB, log)
	progressEntryRepo := repos.NewProgressEntryRepo(theDB, log)
	riskSnapshotRepo := repos.NewRiskSnapshotRepo(theDB, log)

	// Services
	log.Info("Setting up Services from main...")
	projectService := services.NewProjectService(log, projectRepo)
	activityService := services.NewActivityService(log, activityRepo, projectRepo)
	rollupService := services.NewRollupService(log, scheduleItemRepo, activityRepo)
	scheduleService := services.NewScheduleService(log, scheduleItemRepo, activityRepo, rollupService)
	progressService := services.NewProgressService(log, progressEntryRepo, scheduleItemRepo, activityRepo)
	riskService := services.NewRiskService(log, activityRepo, progressEntryRepo, riskSnapshotRepo)
	riskService.StartWorker(context.Background(), cfg.RiskBatchInterval)

	// Handlers
	log.Info("Setting up handlers from main...")
	projectHandler := handlers.NewProjectHandler(projectService)
	activityHandler := handlers.NewActivityHandler(activityService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	progressHandler := handlers.NewProgressHandler(progressService)
	riskHandler := handlers.NewRiskHandler(riskService, riskSnapshotRepo)

	// Middleware
	log.Info("Setting up middleware from main...")
	requestLog := middleware.NewRequestLogMiddleware(log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		CORSOrigins:          cfg.CORSOrigins,
		RequestLogMiddleware: requestLog,
		ProjectHandler:       projectHandler,
		ActivityHandler:      activityHandler,
		ScheduleHandler:      scheduleHandler,
		ProgressHandler:      progressHandler,
		RiskHandler:          riskHandler,
	})

	fmt.Printf("Server listening on :%s\n", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
