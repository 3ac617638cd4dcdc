package chain

import (
	"context"
	"fmt"
	"strings"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	llmctx "infoprod-ai-api/internal/domain/service"
	workflowport "infoprod-ai-api/internal/workflow/port"
	workflowprompt "infoprod-ai-api/internal/workflow/prompt"
	apperrors "infoprod-ai-api/pkg/errors"
)

// GenerationClient 包装一次 chat completion 调用。
// 每次调用只尝试一次，失败统一转换为带分类的 ProviderError；是否重试或降级由调用方决定。
type GenerationClient struct {
	factory  workflowport.ChatModelFactory
	provider string
}

func NewGenerationClient(factory workflowport.ChatModelFactory, provider string) *GenerationClient {
	return &GenerationClient{factory: factory, provider: strings.TrimSpace(provider)}
}

// Provider 当前使用的提供商名
func (c *GenerationClient) Provider() string {
	return c.provider
}

// ModelName 当前提供商配置的模型名（工厂不支持时为空）
func (c *GenerationClient) ModelName() string {
	if namer, ok := c.factory.(workflowport.ModelNamer); ok {
		return namer.ModelName(c.provider)
	}
	return ""
}

// Generate 非流式调用，返回完整文本。
// 上游没有返回消息时视为 ProviderError；内容为空字符串时原样返回，由调用方判断。
func (c *GenerationClient) Generate(ctx context.Context, req *workflowprompt.Request) (string, error) {
	chatModel, err := c.prepare(ctx, req)
	if err != nil {
		return "", err
	}

	ctx = c.callbackContext(ctx, req)
	outMsg, err := chatModel.Generate(ctx, req.Messages, buildModelOptions(req.Params)...)
	if err != nil {
		return "", apperrors.NewProviderError(ClassifyProviderError(err), err)
	}
	if outMsg == nil {
		return "", apperrors.NewProviderError(apperrors.ProviderErrorUnknown, fmt.Errorf("empty llm response"))
	}
	return outMsg.Content, nil
}

// Stream 返回 Eino StreamReader；调用方负责 Close()。
// 读取过程中的错误已经由 WrapStreamError 转换为带分类的 ProviderError。
func (c *GenerationClient) Stream(ctx context.Context, req *workflowprompt.Request) (*schema.StreamReader[*schema.Message], error) {
	chatModel, err := c.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	ctx = c.callbackContext(ctx, req)
	sr, err := chatModel.Stream(ctx, req.Messages, buildModelOptions(req.Params)...)
	if err != nil {
		return nil, apperrors.NewProviderError(ClassifyProviderError(err), err)
	}
	return schema.StreamReaderWithConvert(sr, passMessage, schema.WithErrWrapper(WrapStreamError)), nil
}

func passMessage(msg *schema.Message) (*schema.Message, error) {
	return msg, nil
}

// WrapStreamError 将流读取中途的错误转换为 ProviderError
func WrapStreamError(err error) error {
	if err == nil || apperrors.IsAppError(err) {
		return err
	}
	return apperrors.NewProviderError(ClassifyProviderError(err), err)
}

func (c *GenerationClient) prepare(ctx context.Context, req *workflowprompt.Request) (model.BaseChatModel, error) {
	if c == nil || c.factory == nil {
		return nil, apperrors.NewConfigurationError("llm factory not configured")
	}
	if req == nil || len(req.Messages) == 0 {
		return nil, fmt.Errorf("prompt request is empty")
	}
	// 工厂返回的配置错误原样向上传递
	return c.factory.Get(ctx, c.provider)
}

// callbackContext 标记内容类型并挂载全局 callbacks（直接调用组件时不会自动注入）
func (c *GenerationClient) callbackContext(ctx context.Context, req *workflowprompt.Request) context.Context {
	ctx = llmctx.WithContentTypeProvider(ctx, string(req.ContentType), c.provider)
	return callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      string(req.ID),
		Type:      "OpenAI",
		Component: components.ComponentOfChatModel,
	})
}

func buildModelOptions(p workflowprompt.Params) []model.Option {
	opts := make([]model.Option, 0, 3)
	if p.Temperature != nil {
		opts = append(opts, model.WithTemperature(*p.Temperature))
	}
	if p.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(p.MaxTokens))
	}
	if p.JSONResponse {
		opts = append(opts, openaiopts.WithExtraFields(map[string]any{
			"response_format": map[string]any{"type": "json_object"},
		}))
	}
	return opts
}
