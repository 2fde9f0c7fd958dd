package middleware

import (
	"strconv"
	"time"

	"innovatube/backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics coleta contagem e latência das requisições HTTP.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// FullPath devolve o template da rota (baixa cardinalidade); vazio para 404.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.HTTPRequestCounter.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
