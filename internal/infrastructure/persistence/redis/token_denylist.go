package redis

import (
	"context"
	"time"

	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/tracer"
)

const denylistKeyPrefix = "auth:revoked:"

// TokenDenylist 已注销 Token 的 jti，过期时间与 Token 一致
type TokenDenylist struct {
	client *Client
}

// NewTokenDenylist 创建 Token 黑名单
func NewTokenDenylist(client *Client) *TokenDenylist {
	return &TokenDenylist{client: client}
}

// Revoke 注销 jti；ttl 为 0 说明 Token 已过期，无需记录
func (d *TokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	ctx, span := d.client.startSpan(ctx, "redis.TokenDenylist.Revoke")
	defer span.End()

	if err := d.client.rdb.Set(ctx, denylistKeyPrefix+jti, 1, ttl).Err(); err != nil {
		tracer.Fail(span, err)
		return apperrors.Wrap(err, apperrors.CodeCacheError, "failed to revoke token")
	}
	return nil
}

// IsRevoked 检查 jti 是否已注销
func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	ctx, span := d.client.startSpan(ctx, "redis.TokenDenylist.IsRevoked")
	defer span.End()

	n, err := d.client.rdb.Exists(ctx, denylistKeyPrefix+jti).Result()
	if err != nil {
		tracer.Fail(span, err)
		return false, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to check token")
	}
	return n > 0, nil
}
