package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"

	"infoprod-ai-api/pkg/tracer"
)

// slidingWindow 在一次往返内完成清理、计数与记录。
// KEYS[1] 限流键；ARGV: 当前毫秒、窗口毫秒、上限、成员。返回 {是否放行, 窗口内计数}
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
  return {0, count}
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window * 2)
return {1, count + 1}
`)

// RateLimiter 滑动窗口限流器，生成类接口按用户或客户端 IP 计数
type RateLimiter struct {
	client *Client
}

// NewRateLimiter 创建限流器
func NewRateLimiter(client *Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow 记录一次请求并返回是否仍在配额内；被拒绝的请求不计数
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	ctx, span := l.client.startSpan(ctx, "redis.RateLimiter.Allow",
		attribute.String("ratelimit.key", key),
		attribute.Int("ratelimit.limit", limit),
		attribute.Int64("ratelimit.window_ms", window.Milliseconds()),
	)
	defer span.End()

	// 同一毫秒内的请求用随机 member 区分
	res, err := slidingWindow.Run(ctx, l.client.rdb, []string{key},
		time.Now().UnixMilli(), window.Milliseconds(), limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		tracer.Fail(span, err)
		return false, fmt.Errorf("rate limit %s: %w", key, err)
	}
	if len(res) != 2 {
		return false, fmt.Errorf("rate limit %s: unexpected script reply %v", key, res)
	}

	allowed := res[0] == 1
	span.SetAttributes(
		attribute.Int64("ratelimit.current_count", res[1]),
		attribute.Bool("ratelimit.allowed", allowed),
	)
	return allowed, nil
}

// BuildRateLimitKey 构建限流键，subject 为用户 ID 或 "ip:<addr>"
func BuildRateLimitKey(subject, scope string) string {
	return "ratelimit:" + scope + ":" + subject
}
