package health

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/stylize/server/internal/logger"
	"github.com/gin-gonic/gin"
)

const (
	serviceName = "stylize"
	version     = "1.0.0"
	pingTimeout = 2 * time.Second
)

// anything whose connectivity gates readiness, typically the usage store
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler godoc
// @Summary Health check
// @Description Reports whether the server is running and its usage storage is reachable
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /health [get]
func Handler(storage Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		response := Response{
			Success:   true,
			Status:    "healthy",
			Service:   serviceName,
			Message:   "Server is running",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Storage:   "ok",
			Version:   version,
		}

		if storage != nil {
			if err := storage.Ping(ctx); err != nil {
				logger.Warn("health check: storage unreachable", "error", err)

				response.Success = false
				response.Status = "degraded"
				response.Message = "Usage storage unreachable"
				response.Storage = "unavailable"

				c.JSON(http.StatusServiceUnavailable, response)
				return
			}
		}

		c.JSON(http.StatusOK, response)
	}
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{
		Message: "pong",
	})
}
