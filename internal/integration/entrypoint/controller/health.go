// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController handles health check endpoints.
type HealthController struct {
	dbHealthChecker    func() bool
	stateHealthChecker func() bool
	stateBackend       string
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status       string `json:"status"`
	Database     string `json:"database"`
	StateBackend string `json:"stateBackend"`
	StateStore   string `json:"stateStore"`
	Timestamp    string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(dbHealthChecker func() bool, stateBackend string, stateHealthChecker func() bool) *HealthController {
	return &HealthController{
		dbHealthChecker:    dbHealthChecker,
		stateHealthChecker: stateHealthChecker,
		stateBackend:       stateBackend,
	}
}

// Check handles GET /health requests.
// The statement keeps serving from memory when the state store is down,
// so a degraded store does not fail the check.
func (h *HealthController) Check(c *gin.Context) {
	response := HealthResponse{
		Status:       "ok",
		Database:     connectionStatus(h.dbHealthChecker),
		StateBackend: h.stateBackend,
		StateStore:   connectionStatus(h.stateHealthChecker),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, response)
}

func connectionStatus(check func() bool) string {
	if check != nil && check() {
		return "connected"
	}
	return "disconnected"
}
