// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/decor-finance/backend/internal/integration/entrypoint/controller"
	"github.com/decor-finance/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                   *gin.Engine
	healthController         *controller.HealthController
	reconciliationController *controller.ReconciliationController
	autoMatchRateLimiter     *middleware.RateLimiter
	authMiddleware           *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	reconciliationController *controller.ReconciliationController,
	autoMatchRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:         healthController,
		reconciliationController: reconciliationController,
		autoMatchRateLimiter:     autoMatchRateLimiter,
		authMiddleware:           authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	// Reconciliation routes require a database; they are skipped when it is unavailable
	if r.reconciliationController == nil || r.authMiddleware == nil {
		return
	}

	v1 := r.engine.Group("/api/v1")
	reconciliation := v1.Group("/reconciliation")
	reconciliation.Use(r.authMiddleware.Authenticate())
	{
		movements := reconciliation.Group("/movements/:id")
		{
			movements.GET("/suggestions", r.reconciliationController.GetSuggestions)
			movements.GET("/pattern-suggestions", r.reconciliationController.GetPatternSuggestions)
			movements.GET("/explain", r.reconciliationController.Explain)
			movements.POST("/confirm", r.reconciliationController.ConfirmMatch)
		}

		if r.autoMatchRateLimiter != nil {
			reconciliation.POST("/auto-matches", r.autoMatchRateLimiter.Middleware(), r.reconciliationController.DetectAutoMatches)
		} else {
			reconciliation.POST("/auto-matches", r.reconciliationController.DetectAutoMatches)
		}

		patterns := reconciliation.Group("/patterns")
		{
			patterns.GET("", r.reconciliationController.ListPatterns)
			patterns.POST("/:id/reject", r.reconciliationController.RejectPattern)
			patterns.GET("/:id/history", r.reconciliationController.GetPatternHistory)
		}
	}
}
