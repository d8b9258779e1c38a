package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/sweetshop/pkg/metrics"
)

// unmatchedRoute 未匹配任何路由的请求统一用这个标签，控制标签基数
const unmatchedRoute = "unmatched"

// Metrics 按路由模板记录请求数、延迟和并发请求数
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := m.TrackInFlight()
		start := time.Now()

		c.Next()

		done()
		m.ObserveHTTPRequest(c.Request.Method, routeOf(c), c.Writer.Status(), time.Since(start))
	}
}

func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}
