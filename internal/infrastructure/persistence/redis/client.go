// Package redis 提供基于 Redis 的创作会话存储、Token 黑名单与限流
package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"infoprod-ai-api/internal/config"
	"infoprod-ai-api/pkg/tracer"
)

// Client 包装 go-redis 客户端。
// 连接按需建立，Redis 不可用时启动不受影响，具体调用返回错误。
type Client struct {
	rdb  *redis.Client
	addr string
}

// NewClient 创建 Redis 客户端
func NewClient(cfg *config.RedisConfig) *Client {
	opts := &redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return &Client{rdb: redis.NewClient(opts), addr: opts.Addr}
}

// Redis 底层客户端，供消息队列共用连接池
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}

// HealthCheck 健康检查
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, span := c.startSpan(ctx, "redis.HealthCheck")
	defer span.End()

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		tracer.Fail(span, err)
		return fmt.Errorf("redis ping %s: %w", c.addr, err)
	}
	return nil
}

// startSpan 开启带 db.system 与地址属性的 span
func (c *Client) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("db.system", "redis"),
		attribute.String("net.peer.name", c.addr),
	)
	return tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}
