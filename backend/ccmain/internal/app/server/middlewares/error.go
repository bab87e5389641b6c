package middlewares

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"coldchain/backend/ccmain/internal/app/pkg/errorx"
	"coldchain/backend/ccmain/internal/app/pkg/ginx"
	"coldchain/backend/ccmain/internal/app/pkg/logger"
)

// ErrorHandler 统一错误处理中间件
// handler 通过 c.Error 上报错误，这里按错误类别输出响应；panic 转为 500
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.ErrorContext(c.Request.Context(), "panic recovered",
					"path", c.Request.URL.Path,
					"panic", fmt.Sprint(r))
				c.Abort()
				ginx.DomainError(c, errorx.Internal(fmt.Errorf("panic: %v", r)))
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		if de := errorx.Wrap(err); de.HTTPStatus() >= 500 {
			log.ErrorContext(c.Request.Context(), "request failed",
				"path", c.Request.URL.Path,
				"kind", string(de.Kind),
				"error", err)
		}
		ginx.DomainError(c, err)
	}
}
