// Package messaging 基于 Redis Stream 的章节任务队列
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"infoprod-ai-api/internal/domain/entity"
	"infoprod-ai-api/pkg/logger"
)

// Stream 流名称
type Stream string

const (
	StreamEbookChapters Stream = "stream:ebook:chapters"
)

// DLQStream 对应的死信流
func (s Stream) DLQStream() string {
	return "dlq:" + string(s)
}

// ConsumerGroup 消费者组名称
type ConsumerGroup string

const (
	ConsumerGroupChapterWorker ConsumerGroup = "cg-chapter-worker"
)

// MessageTypeChapterGenerate 单章生成任务
const MessageTypeChapterGenerate = "ebook.chapter.generate"

// Message 写入流的消息信封，RequestID/TraceID 用于在 worker 侧串联日志
type Message struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	UserID    string          `json:"user_id"`
	RequestID string          `json:"request_id,omitempty"`
	TraceID   string          `json:"trace_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewChapterMessage 包装章节任务，并从 ctx 继承请求与追踪标识
func NewChapterMessage(ctx context.Context, job entity.ChapterJob) (*Message, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("encode chapter job: %w", err)
	}
	reqID, _ := ctx.Value(logger.RequestIDKey).(string)
	var traceID string
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}
	return &Message{
		ID:        uuid.NewString(),
		Type:      MessageTypeChapterGenerate,
		UserID:    job.UserID,
		RequestID: reqID,
		TraceID:   traceID,
		Payload:   payload,
		CreatedAt: time.Now(),
	}, nil
}

// ChapterJob 解析章节任务载荷
func (m *Message) ChapterJob() (entity.ChapterJob, error) {
	var job entity.ChapterJob
	if err := json.Unmarshal(m.Payload, &job); err != nil {
		return job, fmt.Errorf("invalid chapter job payload: %w", err)
	}
	return job, nil
}

// LogContext 把消息携带的标识写回日志 context
func (m *Message) LogContext(ctx context.Context) context.Context {
	if m.UserID != "" {
		ctx = logger.WithContext(ctx, logger.UserIDKey, m.UserID)
	}
	if m.RequestID != "" {
		ctx = logger.WithContext(ctx, logger.RequestIDKey, m.RequestID)
	}
	if m.TraceID != "" {
		ctx = logger.WithContext(ctx, logger.TraceIDKey, m.TraceID)
	}
	return ctx
}

// BackoffConfig 失败消息重投的指数退避
type BackoffConfig struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// DefaultBackoffConfig 1s 起步，翻倍，封顶 1 分钟
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		Initial:    time.Second,
		Max:        time.Minute,
		Multiplier: 2,
	}
}

// CalculateBackoff 第 retryCount 次重投前的等待时间
func (c BackoffConfig) CalculateBackoff(retryCount int) time.Duration {
	if retryCount <= 0 {
		return c.Initial
	}
	d := float64(c.Initial) * math.Pow(c.Multiplier, float64(retryCount))
	if d >= float64(c.Max) || math.IsInf(d, 0) {
		return c.Max
	}
	return time.Duration(d)
}
