// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"time"

	"infoprod-ai-api/internal/domain/entity"
)

// CreationSessionStore 创作会话存储，未找到返回 nil, nil
type CreationSessionStore interface {
	Get(ctx context.Context, id string) (*entity.CreationSession, error)
	Save(ctx context.Context, session *entity.CreationSession, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// TokenDenylist 已注销 Token 的黑名单
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
