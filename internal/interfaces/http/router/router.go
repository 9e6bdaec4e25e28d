// Package router wires the HTTP routes and middleware.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/commerce-ml/data-exporter/internal/infrastructure/config"
	"github.com/commerce-ml/data-exporter/internal/infrastructure/logger"
	"github.com/commerce-ml/data-exporter/internal/interfaces/http/handler"
	"github.com/commerce-ml/data-exporter/internal/interfaces/http/middleware"
)

// Handlers groups the handlers mounted by the router
type Handlers struct {
	System *handler.SystemHandler
	Job    *handler.JobHandler
}

// New creates a configured gin engine with all routes registered
func New(cfg *config.Config, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())

	engine.GET("/health", h.System.Health)

	v1 := engine.Group("/api/v1")
	{
		v1.GET("/system/ping", h.System.Ping)
		v1.POST("/jobs/export", h.Job.RunExport)
	}

	return engine
}
