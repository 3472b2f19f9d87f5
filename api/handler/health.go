package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/shopsight/models"
)

// SessionCounter reports open browser sessions. Implemented by *scraper.Fetcher.
type SessionCounter interface {
	ActiveSessions() int
}

// Health returns a handler for GET /api/v1/health.
//
// Sessions scale linearly with in-flight requests (no pool, no cap), so a
// high active count is the signal that the host is under browser pressure.
func Health(sessions SessionCounter, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		active := sessions.ActiveSessions()

		status := "healthy"
		if active > 10 {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:         status,
			Uptime:         time.Since(startTime).Round(time.Second).String(),
			ActiveSessions: active,
			Version:        "0.1.0",
		})
	}
}
