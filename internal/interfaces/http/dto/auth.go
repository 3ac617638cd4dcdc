// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"infoprod-ai-api/internal/domain/entity"
)

// SignUpRequest 注册请求
type SignUpRequest struct {
	Name     string `json:"name" binding:"required,max=128"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// SignUpResponse 注册响应
type SignUpResponse struct {
	Success bool `json:"success"`
}

// SignInRequest 登录请求
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新请求，refresh_token 也可以来自 Cookie
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthUserDTO 认证响应中的用户信息
type AuthUserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // 秒
	User         *AuthUserDTO `json:"user,omitempty"`
}

// SessionResponse 当前会话
type SessionResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// ToAuthUserDTO 将领域实体转换为 DTO
func ToAuthUserDTO(u *entity.UserProfile) *AuthUserDTO {
	if u == nil {
		return nil
	}
	return &AuthUserDTO{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
	}
}
