// Package http wires the gin engine: middleware, routes and server
// lifecycle.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/jalak-hijau/internal/config"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/monitoring"
	"github.com/turtacn/jalak-hijau/internal/interfaces/http/handlers"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// Router owns the gin engine and the HTTP server lifecycle.
type Router struct {
	engine               *gin.Engine
	config               *config.Config
	logger               logger.Logger
	metrics              *monitoring.Metrics
	healthHandler        *handlers.HealthHandler
	analysisHandler      *handlers.AnalysisHandler
	alertHandler         *handlers.AlertHandler
	investigationHandler *handlers.InvestigationHandler
	chatHandler          *handlers.ChatHandler
	sessionHandler       *handlers.SessionHandler
	server               *http.Server
}

// NewRouter creates a Router.
func NewRouter(
	cfg *config.Config,
	log logger.Logger,
	metrics *monitoring.Metrics,
	healthHandler *handlers.HealthHandler,
	analysisHandler *handlers.AnalysisHandler,
	alertHandler *handlers.AlertHandler,
	investigationHandler *handlers.InvestigationHandler,
	chatHandler *handlers.ChatHandler,
	sessionHandler *handlers.SessionHandler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	return &Router{
		engine:               gin.New(),
		config:               cfg,
		logger:               log,
		metrics:              metrics,
		healthHandler:        healthHandler,
		analysisHandler:      analysisHandler,
		alertHandler:         alertHandler,
		investigationHandler: investigationHandler,
		chatHandler:          chatHandler,
		sessionHandler:       sessionHandler,
	}
}

// SetupRoutes registers middleware and routes.
func (r *Router) SetupRoutes() {
	r.engine.Use(handlers.RecoveryMiddleware(r.logger))
	r.engine.Use(handlers.RequestIDMiddleware())
	r.engine.Use(handlers.SessionMiddleware())
	r.engine.Use(handlers.LoggingMiddleware(r.logger))
	if r.metrics != nil {
		r.engine.Use(handlers.MetricsMiddleware(r.metrics))
	}

	corsConfig := cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID", constants.HeaderSessionID},
		ExposeHeaders:    []string{"X-Request-ID", constants.HeaderSessionID},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	r.engine.Use(cors.New(corsConfig))

	r.engine.GET("/health/live", r.healthHandler.LivenessCheck)
	r.engine.GET("/health/ready", r.healthHandler.ReadinessCheck)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if r.config.Server.EnablePprof {
		pprof.Register(r.engine)
	}

	v1 := r.engine.Group("/api/v1")
	{
		analysis := v1.Group("/analysis")
		{
			analysis.GET("/overlaps", r.analysisHandler.GetOverlaps)
			analysis.GET("/stats", r.analysisHandler.GetStats)
			analysis.GET("/concessions", r.analysisHandler.GetConcessions)
			analysis.GET("/protected-areas", r.analysisHandler.GetProtectedAreas)
			analysis.GET("/transactions", r.analysisHandler.GetTransactions)
		}

		alerts := v1.Group("/alerts")
		{
			alerts.GET("", r.alertHandler.ListAlerts)
			alerts.GET("/:alert_id", r.alertHandler.GetAlert)
		}

		investigations := v1.Group("/investigations")
		{
			investigations.POST("", r.investigationHandler.Open)
			investigations.GET("", r.investigationHandler.List)
			investigations.GET("/:investigation_id", r.investigationHandler.Get)
			investigations.POST("/:investigation_id/evidence", r.investigationHandler.AddEvidence)
			investigations.POST("/:investigation_id/actions", r.investigationHandler.CompleteAction)
			investigations.POST("/:investigation_id/close", r.investigationHandler.Close)
			investigations.GET("/:investigation_id/graph", r.investigationHandler.Graph)
		}

		v1.POST("/chat", r.chatHandler.Chat)

		session := v1.Group("/session")
		{
			session.GET("", r.sessionHandler.Get)
			session.POST("/select-alert", r.sessionHandler.SelectAlert)
			session.POST("/reset", r.sessionHandler.Reset)
		}
	}

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":             "not_found",
			"error_description": "The requested resource was not found",
		})
	})
}

// Start runs the HTTP server until Stop is called or ListenAndServe fails.
func (r *Router) Start() error {
	r.SetupRoutes()

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	r.server = &http.Server{
		Addr:           addr,
		Handler:        r.engine,
		ReadTimeout:    time.Duration(r.config.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(r.config.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	r.logger.Info(context.Background(), "starting HTTP server", logger.Fields{"address": addr})
	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully.
func (r *Router) Stop(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	r.logger.Info(ctx, "stopping HTTP server")
	return r.server.Shutdown(ctx)
}

// Engine exposes the gin engine, used by tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
