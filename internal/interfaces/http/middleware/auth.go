// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"
	"strings"

	"infoprod-ai-api/internal/application/auth"
	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	// AccessTokenCookie Access Token Cookie 名
	AccessTokenCookie = "access_token"
	// RefreshTokenCookie Refresh Token Cookie 名
	RefreshTokenCookie = "refresh_token"
)

// Authenticator 校验 Access Token
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Session, error)
}

// OptionalAuth 解析 Token（Bearer 或 Cookie），成功时注入会话，失败不拦截
func OptionalAuth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			c.Next()
			return
		}

		session, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.Debug(c.Request.Context(), "token rejected", "error", err.Error())
			c.Next()
			return
		}

		c.Set("user_id", session.UserID)
		ctx := auth.WithSession(c.Request.Context(), session)
		ctx = logger.WithContext(ctx, logger.UserIDKey, session.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAuth 要求已认证会话，需在 OptionalAuth 之后使用
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.SessionFromContext(c.Request.Context()) == nil {
			abortUnauthorized(c)
			return
		}
		c.Next()
	}
}

// ExtractToken 优先读取 Authorization 头，其次读取 Cookie
func ExtractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

// GetUserIDFromGin 读取当前用户 ID
func GetUserIDFromGin(c *gin.Context) string {
	if s := auth.SessionFromContext(c.Request.Context()); s != nil {
		return s.UserID
	}
	return ""
}

// abortUnauthorized 终止请求并返回 401 "Não autorizado"
func abortUnauthorized(c *gin.Context) {
	abortWithError(c, apperrors.ErrUnauthorized)
}
