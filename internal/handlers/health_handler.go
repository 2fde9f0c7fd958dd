package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PingFunc verifica a dependência de armazenamento. nil quando o driver é em memória.
type PingFunc func(ctx context.Context) error

// HealthCheck responde 503 quando o banco não responde ao ping.
func HealthCheck(ping PingFunc, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Database unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Server is running"})
	}
}
