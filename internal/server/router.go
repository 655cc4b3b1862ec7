package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vallmere/sitetrack-backend/internal/handlers"
	"github.com/vallmere/sitetrack-backend/internal/middleware"
)

type RouterConfig struct {
	CORSOrigins          []string
	RequestLogMiddleware *middleware.RequestLogMiddleware
	ProjectHandler       *handlers.ProjectHandler
	ActivityHandler      *handlers.ActivityHandler
	ScheduleHandler      *handlers.ScheduleHandler
	ProgressHandler      *handlers.ProgressHandler
	RiskHandler          *handlers.RiskHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	if cfg.RequestLogMiddleware != nil {
		router.Use(cfg.RequestLogMiddleware.Handle())
	}

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Projects
		api.POST("/projects", cfg.ProjectHandler.Create)
		api.GET("/projects", cfg.ProjectHandler.List)
		api.GET("/projects/:id/activities", cfg.ActivityHandler.ListByProject)

		// Activities
		api.POST("/activities", cfg.ActivityHandler.Create)
		api.GET("/activities/:id", cfg.ActivityHandler.Get)
		api.PATCH("/activities/:id", cfg.ActivityHandler.Update)
		api.GET("/activities/:id/daily-goal", cfg.ActivityHandler.DailyGoal)

		// Schedule items
		api.GET("/activities/:id/schedule-items", cfg.ScheduleHandler.ListByActivity)
		api.POST("/schedule-items", cfg.ScheduleHandler.Create)
		api.PATCH("/schedule-items/:id", cfg.ScheduleHandler.Update)
		api.PUT("/schedule-items/:id/predecessor", cfg.ScheduleHandler.SetPredecessor)
		api.DELETE("/schedule-items/:id", cfg.ScheduleHandler.Delete)
		api.POST("/activities/:id/propagate", cfg.ScheduleHandler.Propagate)

		// Progress entries
		api.GET("/activities/:id/progress-entries", cfg.ProgressHandler.ListByActivity)
		api.POST("/progress-entries", cfg.ProgressHandler.Upsert)
		api.DELETE("/progress-entries/:id", cfg.ProgressHandler.Delete)

		// Risk
		api.GET("/activities/:id/risk-snapshots", cfg.RiskHandler.ListByActivity)
		api.POST("/risk/run-batch", cfg.RiskHandler.RunBatch)
	}

	return router
}
