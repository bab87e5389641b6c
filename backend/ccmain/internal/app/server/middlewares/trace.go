package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coldchain/backend/ccmain/internal/app/pkg/logger"
)

// TraceHeader 链路追踪请求头
const TraceHeader = "X-Request-ID"

// Trace 为每个请求分配 trace_id，优先沿用调用方传入的值
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Request = c.Request.WithContext(logger.WithTraceID(c.Request.Context(), traceID))
		c.Header(TraceHeader, traceID)
		c.Next()
	}
}
