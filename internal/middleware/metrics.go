package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPObserver 接收每个请求的方法、路由、状态与耗时
type HTTPObserver interface {
	ObserveHTTPRequest(method, path string, status int, d time.Duration)
}

// Metrics 上报请求指标，未匹配路由统一记为 "unmatched" 以限制标签基数
func Metrics(o HTTPObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		o.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
