// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"

	"infoprod-ai-api/pkg/logger"
	"infoprod-ai-api/pkg/tracer"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Trace OpenTelemetry 追踪中间件，健康检查与指标端点不采样
func Trace(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			switch r.URL.Path {
			case "/health", "/ready", "/live", "/metrics":
				return false
			}
			return true
		}),
	)
}

// TraceContext 把 trace_id 写入 Gin、日志 context 与响应头
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if traceID := tracer.TraceID(ctx); traceID != "" {
			c.Set("trace_id", traceID)

			ctx = logger.WithContext(ctx, logger.TraceIDKey, traceID)
			ctx = logger.WithContext(ctx, logger.SpanIDKey, tracer.SpanID(ctx))
			c.Request = c.Request.WithContext(ctx)
			c.Header("X-Trace-ID", traceID)
		}
		c.Next()
	}
}
