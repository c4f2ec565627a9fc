// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/backoffice/statement/internal/integration/entrypoint/controller"
	"github.com/backoffice/statement/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine              *gin.Engine
	healthController    *controller.HealthController
	statementController *controller.StatementController
	historyController   *controller.HistoryController
	confirmRateLimiter  *middleware.RateLimiter
	authMiddleware      *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	statementController *controller.StatementController,
	historyController *controller.HistoryController,
	confirmRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:    healthController,
		statementController: statementController,
		historyController:   historyController,
		confirmRateLimiter:  confirmRateLimiter,
		authMiddleware:      authMiddleware,
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
	v1 := r.engine.Group("/api/v1")

	stmt := v1.Group("/statement")
	if r.authMiddleware != nil {
		stmt.Use(r.authMiddleware.Authenticate())
	}

	if r.statementController != nil {
		stmt.GET("", r.statementController.Get)
		stmt.POST("/lines", r.statementController.AddItem)
		stmt.DELETE("/lines/:id", r.statementController.RemoveItem)
		stmt.PATCH("/lines/:id/value", r.statementController.EditValue)
		stmt.PATCH("/lines/:id/description", r.statementController.EditDescription)

		pending := stmt.Group("/pending-edit")
		{
			pending.GET("", r.statementController.GetPendingEdit)
			if r.confirmRateLimiter != nil {
				pending.POST("/:id/confirm", r.confirmRateLimiter.Middleware(), r.statementController.ConfirmEdit)
			} else {
				pending.POST("/:id/confirm", r.statementController.ConfirmEdit)
			}
			pending.DELETE("/:id", r.statementController.CancelEdit)
		}

		stmt.POST("/refresh", r.statementController.Refresh)
		stmt.GET("/notices", r.statementController.Notices)
	}

	if r.historyController != nil {
		history := stmt.Group("/history")
		{
			history.POST("", r.historyController.Capture)
			history.GET("", r.historyController.List)
			history.GET("/:id", r.historyController.Get)
			history.POST("/:id/restore", r.historyController.Restore)
			history.DELETE("/:id", r.historyController.Delete)
		}
	}
}
