package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mercado_validade_v1_202608/internal/metrics"
)

// Metrics 按 方法/路由/状态 记录请求量和耗时
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		if metrics.HTTPRequestsTotal == nil {
			return
		}

		duration := time.Since(start).Seconds()
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration)
	}
}
