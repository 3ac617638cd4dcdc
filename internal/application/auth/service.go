// Package auth 提供注册、登录、注销与会话校验
package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"infoprod-ai-api/internal/domain/entity"
	"infoprod-ai-api/internal/domain/repository"
	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/logger"
	"infoprod-ai-api/pkg/metrics"
	"infoprod-ai-api/pkg/utils"
)

// MinPasswordLength 密码最小长度
const MinPasswordLength = 6

// Config 认证配置
type Config struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// SignInResult 登录结果
type SignInResult struct {
	Profile *entity.UserProfile
	Tokens  *utils.TokenPair
}

// Service 认证服务
type Service struct {
	profiles repository.ProfileRepository
	denylist repository.TokenDenylist
	jwt      *utils.JWTManager
	cfg      Config
}

func NewService(profiles repository.ProfileRepository, denylist repository.TokenDenylist, cfg Config) *Service {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &Service{
		profiles: profiles,
		denylist: denylist,
		jwt:      utils.NewJWTManager(cfg.Secret, cfg.Issuer),
		cfg:      cfg,
	}
}

// AccessTTL Access Token 有效期（用于 Cookie）
func (s *Service) AccessTTL() time.Duration {
	return s.cfg.AccessTTL
}

// RefreshTTL Refresh Token 有效期
func (s *Service) RefreshTTL() time.Duration {
	return s.cfg.RefreshTTL
}

// SignUp 注册：创建资料并保存密码散列，邮箱重复返回 CONFLICT
func (s *Service) SignUp(ctx context.Context, name, email, password string) (*entity.UserProfile, error) {
	profile := entity.NewUserProfile(name, email)
	if profile.Name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	if _, err := mail.ParseAddress(profile.Email); err != nil {
		return nil, apperrors.NewValidationError("invalid email")
	}
	if len(password) < MinPasswordLength {
		return nil, apperrors.NewValidationError("password too short")
	}

	exists, err := s.profiles.ExistsByEmail(ctx, profile.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		metrics.AuthEventsTotal.WithLabelValues("signup", "conflict").Inc()
		return nil, apperrors.ErrConflict.WithDetail("email already registered")
	}

	if err := profile.SetPassword(password); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to hash password")
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	metrics.AuthEventsTotal.WithLabelValues("signup", "success").Inc()
	logger.Info(ctx, "profile created", "user_id", profile.ID)
	return profile, nil
}

// SignIn 校验邮箱密码并签发双 Token
func (s *Service) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	profile, err := s.profiles.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if profile == nil || !profile.CheckPassword(password) {
		metrics.AuthEventsTotal.WithLabelValues("signin", "denied").Inc()
		return nil, apperrors.ErrUnauthorized.WithDetail("invalid email or password")
	}

	tokens, err := s.jwt.GenerateTokenPair(profile.ID, profile.Email, s.cfg.AccessTTL, s.cfg.RefreshTTL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to generate tokens")
	}

	metrics.AuthEventsTotal.WithLabelValues("signin", "success").Inc()
	return &SignInResult{Profile: profile, Tokens: tokens}, nil
}

// Authenticate 校验 Access Token 并返回会话
func (s *Service) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims, err := s.parse(ctx, token, utils.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return &Session{
		UserID:    claims.UserID,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SignOut 将 Token 的 jti 加入黑名单直到过期；无效 Token 直接忽略
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.jwt.ParseToken(token)
	if err != nil {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, claims.TTL()); err != nil {
		return err
	}
	metrics.AuthEventsTotal.WithLabelValues("signout", "success").Inc()
	return nil
}

// Refresh 用 Refresh Token 换取新的双 Token，旧 Refresh Token 作废
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	claims, err := s.parse(ctx, refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	tokens, err := s.jwt.GenerateTokenPair(claims.UserID, claims.Email, s.cfg.AccessTTL, s.cfg.RefreshTTL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to generate tokens")
	}
	if err := s.denylist.Revoke(ctx, claims.ID, claims.TTL()); err != nil {
		logger.Warn(ctx, "failed to revoke rotated refresh token", "error", err.Error())
	}

	metrics.AuthEventsTotal.WithLabelValues("refresh", "success").Inc()
	return tokens, nil
}

// Profile 获取用户资料
func (s *Service) Profile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperrors.ErrNotFound.WithDetail("profile not found")
	}
	return profile, nil
}

// parse 校验签名、类型与黑名单。
// 黑名单不可用时放行并记录告警，Token 本身有效期较短。
func (s *Service) parse(ctx context.Context, token, tokenType string) (*utils.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.ErrTokenMissing
	}
	claims, err := s.jwt.ParseToken(token)
	if err != nil {
		if errors.Is(err, utils.ErrExpiredToken) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}
	if claims.Type != tokenType {
		return nil, apperrors.ErrTokenInvalid.WithDetail("unexpected token type")
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		logger.Warn(ctx, "token denylist unavailable", "error", err.Error())
		return claims, nil
	}
	if revoked {
		return nil, apperrors.ErrTokenInvalid.WithDetail("token revoked")
	}
	return claims, nil
}
