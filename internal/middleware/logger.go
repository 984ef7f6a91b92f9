package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
)

// Logger 请求日志中间件
func Logger(logger log.Logger) gin.HandlerFunc {
	helper := log.NewHelper(log.With(logger, "module", "http"))
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		// 处理请求
		c.Next()

		status := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"ip", c.ClientIP(),
			"status", status,
			"latency", time.Since(start).String(),
			"request_id", GetRequestID(c),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			helper.Errorw(kv...)
		case status >= 400:
			helper.Warnw(kv...)
		default:
			helper.Infow(kv...)
		}
	}
}
