// Package middleware 提供 HTTP 中间件
package middleware

import (
	"fmt"
	"runtime/debug"

	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery 捕获 panic，记录堆栈并返回 500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			logger.Error(c.Request.Context(), "panic recovered", fmt.Errorf("%v", r),
				"stack", string(debug.Stack()),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)
			abortWithError(c, apperrors.ErrInternalError)
		}()
		c.Next()
	}
}

// abortWithError 以统一错误信封终止请求
func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{
		"code":    appErr.HTTPStatus,
		"message": appErr.Message,
		"error": gin.H{
			"error_code": appErr.Code.Name(),
		},
		"trace_id": c.GetString("trace_id"),
	})
}
