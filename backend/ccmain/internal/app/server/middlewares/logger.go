package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"

	"coldchain/backend/ccmain/internal/app/pkg/logger"
)

// Logger 访问日志
func Logger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if c.Writer.Status() >= 500 {
			log.WarnContext(c.Request.Context(), "http request", fields...)
			return
		}
		log.InfoContext(c.Request.Context(), "http request", fields...)
	}
}
