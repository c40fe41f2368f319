// Package health exposes liveness and readiness probes.
package health

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cantina/api/response"
)

// Controller handles health endpoints. db is nil when the service runs on the
// in-memory store; readiness then only reports the process itself.
type Controller struct {
	db        *sql.DB
	version   string
	startedAt time.Time
}

func NewController(db *sql.DB, version string) *Controller {
	return &Controller{
		db:        db,
		version:   version,
		startedAt: time.Now(),
	}
}

// RegisterRoutes mounts the health endpoints on the engine root, outside the
// versioned API group.
func (ctrl *Controller) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", ctrl.Health)
	r.GET("/health/live", ctrl.Live)
	r.GET("/health/ready", ctrl.Ready)
}

// Health handles GET /health.
func (ctrl *Controller) Health(c *gin.Context) {
	response.HandleSuccess(c, gin.H{
		"status":  "ok",
		"version": ctrl.version,
		"uptime":  time.Since(ctrl.startedAt).Round(time.Second).String(),
	}, "service healthy")
}

// Live handles GET /health/live. Always succeeds while the process runs.
func (ctrl *Controller) Live(c *gin.Context) {
	response.HandleSuccess(c, gin.H{"status": "alive"}, "liveness probe")
}

// Ready handles GET /health/ready. Fails when the database is unreachable.
func (ctrl *Controller) Ready(c *gin.Context) {
	if ctrl.db != nil {
		if err := ctrl.db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, &response.Response{
				Success:   false,
				Error:     "NOT_READY",
				Message:   "database unreachable",
				Code:      http.StatusServiceUnavailable,
				RequestID: response.GetRequestID(c),
			})
			return
		}
	}
	response.HandleSuccess(c, gin.H{"status": "ready"}, "readiness probe")
}
