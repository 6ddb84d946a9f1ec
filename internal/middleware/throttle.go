package middleware

import (
	"Movie_Catalog/pkg/logger"
	"Movie_Catalog/pkg/metrics"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// Throttle 按用户限流，固定窗口计数：每个窗口一个Redis key，INCR计数，第一次计数时设置过期
// 只限制已登录用户；Redis故障时放行，不能因为限流把接口整个拖垮
func Throttle(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if rdb == nil || !ok {
			c.Next()
			return
		}

		now := time.Now()
		bucket := now.UnixNano() / int64(window)
		route := c.FullPath()
		key := fmt.Sprintf("throttle:%s:%s:%d:%d", c.Request.Method, route, userID, bucket)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			logger.Log.WithField("route", route).WithError(err).Warn("限流计数失败，直接放行")
			c.Next()
			return
		}
		if count == 1 {
			// 没有过期时间的key会一直留在Redis里，记下来方便清理
			if err := rdb.Expire(ctx, key, window).Err(); err != nil {
				logger.Log.WithField("route", route).WithField("key", key).WithError(err).Warn("限流key设置过期失败")
			}
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		if count > int64(limit) {
			windowEnd := time.Unix(0, (bucket+1)*int64(window))
			retryAfter := int(windowEnd.Sub(now).Seconds()) + 1
			metrics.ThrottleRejections.WithLabelValues(route).Inc()
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": fmt.Sprintf("%s内最多请求%d次", window, limit),
			})
			return
		}
		c.Next()
	}
}
