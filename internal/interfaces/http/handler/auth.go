// Package handler 提供 HTTP 请求处理器
package handler

import (
	"net/http"
	"time"

	"infoprod-ai-api/internal/application/auth"
	"infoprod-ai-api/internal/interfaces/http/dto"
	"infoprod-ai-api/internal/interfaces/http/middleware"
	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/logger"
	"infoprod-ai-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

const refreshCookiePath = "/api/v1/auth"

// AuthHandler 认证处理器
type AuthHandler struct {
	svc          *auth.Service
	cookieSecure bool
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(svc *auth.Service, cookieSecure bool) *AuthHandler {
	return &AuthHandler{svc: svc, cookieSecure: cookieSecure}
}

// SignUp 注册
// @Summary 用户注册
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.SignUpRequest true "注册信息"
// @Success 201 {object} dto.Response[dto.SignUpResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.svc.SignUp(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, dto.SignUpResponse{Success: true})
}

// Login 登录
// @Summary 用户登录
// @Description 验证邮箱密码，返回双 Token 并写入 HTTP-only Cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.SignInRequest true "登录信息"
// @Success 200 {object} dto.Response[dto.AuthResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.SignInRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setTokenCookies(c, result.Tokens)
	dto.Success(c, &dto.AuthResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresIn:    int(h.svc.AccessTTL().Seconds()),
		User:         dto.ToAuthUserDTO(result.Profile),
	})
}

// Logout 注销当前 Token 并清除 Cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if token := middleware.ExtractToken(c); token != "" {
		if err := h.svc.SignOut(ctx, token); err != nil {
			logger.Warn(ctx, "failed to revoke access token", "error", err.Error())
		}
	}
	if refresh, err := c.Cookie(middleware.RefreshTokenCookie); err == nil && refresh != "" {
		if err := h.svc.SignOut(ctx, refresh); err != nil {
			logger.Warn(ctx, "failed to revoke refresh token", "error", err.Error())
		}
	}

	h.clearTokenCookies(c)
	dto.Success(c, gin.H{"success": true})
}

// Refresh 使用 Refresh Token 换取新的双 Token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	_ = c.ShouldBindJSON(&req)

	token := req.RefreshToken
	if token == "" {
		token, _ = c.Cookie(middleware.RefreshTokenCookie)
	}
	if token == "" {
		respondError(c, apperrors.ErrTokenMissing)
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setTokenCookies(c, tokens)
	dto.Success(c, &dto.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    int(h.svc.AccessTTL().Seconds()),
	})
}

// Session 返回当前会话，未登录时 data 为 null
func (h *AuthHandler) Session(c *gin.Context) {
	var resp *dto.SessionResponse
	if s := auth.SessionFromContext(c.Request.Context()); s != nil {
		resp = &dto.SessionResponse{UserID: s.UserID, Email: s.Email}
	}
	dto.Success(c, resp)
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, tokens *utils.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, tokens.AccessToken, seconds(h.svc.AccessTTL()), "/", "", h.cookieSecure, true)
	c.SetCookie(middleware.RefreshTokenCookie, tokens.RefreshToken, seconds(h.svc.RefreshTTL()), refreshCookiePath, "", h.cookieSecure, true)
}

func (h *AuthHandler) clearTokenCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.cookieSecure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, refreshCookiePath, "", h.cookieSecure, true)
}

func seconds(d time.Duration) int {
	return int(d.Seconds())
}
