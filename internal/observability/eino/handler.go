// Package eino 注册 Eino 全局回调，为模型调用记录指标与追踪
package eino

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	llmctx "infoprod-ai-api/internal/domain/service"
	"infoprod-ai-api/pkg/metrics"
)

var registerOnce sync.Once

// Init 注册全局 ChatModel 回调，重复调用无副作用
func Init() {
	registerOnce.Do(func() {
		einocb.AppendGlobalHandlers(cbtemplate.NewHandlerHelper().
			ChatModel(newChatModelCallbackHandler()).
			Handler())
	})
}

type startTimeKey struct{}

type modelNameKey struct{}

// callLabels 一次调用的指标维度
type callLabels struct {
	contentType string
	provider    string
	model       string
}

func labelsFrom(ctx context.Context, modelName string) callLabels {
	if modelName == "" {
		modelName, _ = ctx.Value(modelNameKey{}).(string)
	}
	if modelName == "" {
		modelName = "unknown"
	}
	return callLabels{
		contentType: llmctx.ContentTypeFromContext(ctx),
		provider:    llmctx.ProviderFromContext(ctx),
		model:       modelName,
	}
}

// newChatModelCallbackHandler 模型调用回调：调用次数、耗时、Token 消耗与 Span
func newChatModelCallbackHandler() *cbtemplate.ModelCallbackHandler {
	return &cbtemplate.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			ctx = context.WithValue(ctx, startTimeKey{}, time.Now())
			modelName := modelNameFromInput(input)
			ctx = context.WithValue(ctx, modelNameKey{}, modelName)

			l := labelsFrom(ctx, modelName)
			attrs := []attribute.KeyValue{
				attribute.String("llm.content_type", l.contentType),
				attribute.String("llm.provider", l.provider),
				attribute.String("llm.model", l.model),
			}
			if info != nil {
				attrs = append(attrs, attribute.String("eino.prompt", info.Name))
			}
			ctx, _ = otel.Tracer("eino").Start(ctx, "llm.generate", trace.WithAttributes(attrs...))
			return ctx
		},

		OnEnd: func(ctx context.Context, _ *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			l := labelsFrom(ctx, modelNameFromOutput(output))
			var usage *model.TokenUsage
			if output != nil {
				usage = output.TokenUsage
			}
			finish(ctx, l, usage, nil)
			return ctx
		},

		OnEndWithStreamOutput: func(ctx context.Context, _ *einocb.RunInfo, output *schema.StreamReader[*model.CallbackOutput]) context.Context {
			go drainStream(ctx, output)
			return ctx
		},

		OnError: func(ctx context.Context, _ *einocb.RunInfo, err error) context.Context {
			finish(ctx, labelsFrom(ctx, ""), nil, err)
			return ctx
		},
	}
}

// drainStream 流式输出结束后统计最后一个带 usage 的分片
func drainStream(ctx context.Context, sr *schema.StreamReader[*model.CallbackOutput]) {
	defer sr.Close()

	var (
		usage     *model.TokenUsage
		modelName string
		streamErr error
	)
	for {
		chunk, err := sr.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			streamErr = err
			break
		}
		if chunk == nil {
			continue
		}
		if chunk.TokenUsage != nil {
			usage = chunk.TokenUsage
		}
		if name := modelNameFromOutput(chunk); name != "" {
			modelName = name
		}
	}
	finish(ctx, labelsFrom(ctx, modelName), usage, streamErr)
}

func finish(ctx context.Context, l callLabels, usage *model.TokenUsage, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.LLMCallTotal.WithLabelValues(l.contentType, l.provider, l.model, status).Inc()
	if d := elapsedSeconds(ctx); d > 0 {
		metrics.LLMCallDuration.WithLabelValues(l.contentType, l.provider, l.model).Observe(d)
	}
	if usage != nil {
		metrics.LLMTokensUsed.WithLabelValues(l.contentType, l.provider, l.model, "prompt").Add(float64(usage.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(l.contentType, l.provider, l.model, "completion").Add(float64(usage.CompletionTokens))
	}

	span := trace.SpanFromContext(ctx)
	if usage != nil {
		span.SetAttributes(
			attribute.Int("llm.prompt_tokens", usage.PromptTokens),
			attribute.Int("llm.completion_tokens", usage.CompletionTokens),
		)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func elapsedSeconds(ctx context.Context) float64 {
	start, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok || start.IsZero() {
		return 0
	}
	return time.Since(start).Seconds()
}

func modelNameFromInput(in *model.CallbackInput) string {
	if in == nil || in.Config == nil {
		return ""
	}
	return in.Config.Model
}

func modelNameFromOutput(out *model.CallbackOutput) string {
	if out == nil || out.Config == nil {
		return ""
	}
	return out.Config.Model
}
