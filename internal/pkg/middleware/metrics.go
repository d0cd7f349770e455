package middleware

import (
	"content_moderation/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware 记录 HTTP 请求指标，endpoint 使用路由模板避免标签爆炸
func MetricsMiddleware(collector *metrics.MetricsCollector) gin.HandlerFunc {
	tracker := metrics.NewMetricsMiddleware(collector)
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		done := tracker.TrackRequest(c.Request.Method, endpoint)

		c.Next()

		done(c.Writer.Status(), c.Writer.Size())
	}
}
