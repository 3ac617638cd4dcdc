package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"

	"infoprod-ai-api/internal/domain/entity"
	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/tracer"
)

const sessionKeyPrefix = "creation:session:"

// CreationSessionStore 以 JSON 形式保存创作会话
type CreationSessionStore struct {
	client *Client
}

// NewCreationSessionStore 创建会话存储
func NewCreationSessionStore(client *Client) *CreationSessionStore {
	return &CreationSessionStore{client: client}
}

// SessionKey 会话键
func SessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Get 读取会话，不存在返回 nil, nil
func (s *CreationSessionStore) Get(ctx context.Context, id string) (*entity.CreationSession, error) {
	ctx, span := s.client.startSpan(ctx, "redis.CreationSessionStore.Get", attribute.String("session.id", id))
	defer span.End()

	raw, err := s.client.rdb.Get(ctx, SessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.SetAttributes(attribute.Bool("cache.hit", false))
			return nil, nil
		}
		tracer.Fail(span, err)
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to read creation session")
	}

	var session entity.CreationSession
	if err := json.Unmarshal(raw, &session); err != nil {
		tracer.Fail(span, err)
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "corrupted creation session")
	}
	span.SetAttributes(attribute.Bool("cache.hit", true))
	return &session, nil
}

// Save 写入会话并刷新过期时间
func (s *CreationSessionStore) Save(ctx context.Context, session *entity.CreationSession, ttl time.Duration) error {
	ctx, span := s.client.startSpan(ctx, "redis.CreationSessionStore.Save",
		attribute.String("session.id", session.ID),
		attribute.Int64("cache.ttl_ms", ttl.Milliseconds()),
	)
	defer span.End()

	raw, err := json.Marshal(session)
	if err != nil {
		tracer.Fail(span, err)
		return apperrors.Wrap(err, apperrors.CodeCacheError, "failed to encode creation session")
	}
	if err := s.client.rdb.Set(ctx, SessionKey(session.ID), raw, ttl).Err(); err != nil {
		tracer.Fail(span, err)
		return apperrors.Wrap(err, apperrors.CodeCacheError, "failed to save creation session")
	}
	return nil
}

// Delete 删除会话
func (s *CreationSessionStore) Delete(ctx context.Context, id string) error {
	ctx, span := s.client.startSpan(ctx, "redis.CreationSessionStore.Delete", attribute.String("session.id", id))
	defer span.End()

	if err := s.client.rdb.Del(ctx, SessionKey(id)).Err(); err != nil {
		tracer.Fail(span, err)
		return apperrors.Wrap(err, apperrors.CodeCacheError, "failed to delete creation session")
	}
	return nil
}
