// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"
	"time"

	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/logger"
	"infoprod-ai-api/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// Enabled 是否启用限流
	Enabled bool
	// Limit 窗口内允许的请求数
	Limit int
	// Window 窗口长度
	Window time.Duration
	// Scope 限流范围，用于区分不同路由组
	Scope string
}

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// KeyBuilder 构建限流 Key
type KeyBuilder func(subject, scope string) string

// RateLimit 限流中间件，已认证按用户限流，否则按客户端 IP
func RateLimit(cfg RateLimitConfig, limiter RateLimiter, buildKey KeyBuilder) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.Limit <= 0 {
		cfg.Limit = 20
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Scope == "" {
		cfg.Scope = "default"
	}

	return func(c *gin.Context) {
		subject := GetUserIDFromGin(c)
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}
		key := buildKey(subject, cfg.Scope)

		allowed, err := limiter.Allow(c.Request.Context(), key, cfg.Limit, cfg.Window)
		if err != nil {
			// 限流器故障时放行
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}

		if !allowed {
			metrics.RateLimitRejectedTotal.WithLabelValues(cfg.Scope).Inc()
			abortWithError(c, apperrors.ErrTooManyRequests)
			return
		}

		c.Next()
	}
}
