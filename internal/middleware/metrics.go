package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"pushbridge/services"
)

/**
 * HTTP request statistics middleware
 * @description
 * - Counts requests per route and records handling time
 * - Requests answered with status >= 400 are additionally counted as errors
 */
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := c.Writer.Status()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}

		services.IncrementRequestCount(path)
		services.RecordRequestDuration(path, duration)

		if statusCode >= 400 {
			services.IncrementErrorCount(path)
		}
	}
}
