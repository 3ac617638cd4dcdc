package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"infoprod-ai-api/internal/domain/entity"
	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/logger"
)

var tracer = otel.Tracer("messaging")

// Producer 消息生产者
type Producer struct {
	client *redis.Client
	maxLen int64
}

// NewProducer 创建消息生产者
func NewProducer(client *redis.Client, maxLen int64) *Producer {
	if maxLen <= 0 {
		maxLen = 100000
	}
	return &Producer{
		client: client,
		maxLen: maxLen,
	}
}

// Publish 发布消息到指定流
func (p *Producer) Publish(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{"data": string(data)},
	}).Result()
	if err != nil {
		span.RecordError(err)
		return "", apperrors.Wrap(err, apperrors.CodeQueueError, "failed to publish message")
	}

	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// PublishChapterJob 发布单个章节生成任务，附带请求与追踪标识
func (p *Producer) PublishChapterJob(ctx context.Context, job entity.ChapterJob) (string, error) {
	msg, err := NewChapterMessage(ctx, job)
	if err != nil {
		return "", err
	}
	return p.Publish(ctx, StreamEbookChapters, msg)
}

// StreamScheduler 把章节任务逐个投递到 Redis Stream，由 job-worker 消费
type StreamScheduler struct {
	producer *Producer
}

// NewStreamScheduler 创建基于 Stream 的调度器
func NewStreamScheduler(producer *Producer) *StreamScheduler {
	return &StreamScheduler{producer: producer}
}

// Schedule 投递全部任务，遇到第一个失败即返回
func (s *StreamScheduler) Schedule(ctx context.Context, jobs []entity.ChapterJob) error {
	for _, job := range jobs {
		if _, err := s.producer.PublishChapterJob(ctx, job); err != nil {
			return err
		}
	}
	logger.Info(ctx, "chapter jobs published", "jobs", len(jobs), "stream", StreamEbookChapters)
	return nil
}
