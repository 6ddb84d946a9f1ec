package middleware

import (
	"Movie_Catalog/pkg/logger"
	"Movie_Catalog/pkg/metrics"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ResponseTime 记录每个请求的耗时，超过阈值的打一条warn
func ResponseTime(slowThreshold time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		// 用路由模板做label，避免/movie/1、/movie/2各占一条时间序列
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		metrics.RecordHTTPRequest(method, route, c.Writer.Status(), elapsed)

		if slowThreshold > 0 && elapsed > slowThreshold {
			metrics.HTTPSlowRequests.WithLabelValues(method, route).Inc()
			logger.Log.WithFields(logrus.Fields{
				"method":     method,
				"path":       c.Request.URL.Path,
				"status":     c.Writer.Status(),
				"elapsed_ms": elapsed.Milliseconds(),
			}).Warn("慢请求")
		}
	}
}
