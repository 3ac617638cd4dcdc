package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"infoprod-ai-api/internal/config"
	apperrors "infoprod-ai-api/pkg/errors"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"golang.org/x/sync/singleflight"
)

// EinoFactory 管理多个 Eino ChatModel 客户端实例
// 客户端在首次使用时创建，缺少 API Key 时在调用时返回配置错误而不是在启动时失败。
type EinoFactory struct {
	config *config.LLMConfig
	models sync.Map // provider -> model.BaseChatModel
	group  singleflight.Group
}

// NewEinoFactory 创建 Eino LLM 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{config: &cfg.LLM}
}

// Get 获取指定名称的 ChatModel，如果未指定则返回默认客户端。
// 并发的首次请求只会创建一个客户端。
func (f *EinoFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	name = f.resolve(name)
	if m, ok := f.models.Load(name); ok {
		return m.(model.BaseChatModel), nil
	}

	v, err, _ := f.group.Do(name, func() (any, error) {
		if m, ok := f.models.Load(name); ok {
			return m, nil
		}
		m, err := f.build(ctx, name)
		if err != nil {
			return nil, err
		}
		f.models.Store(name, m)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(model.BaseChatModel), nil
}

func (f *EinoFactory) build(ctx context.Context, name string) (model.BaseChatModel, error) {
	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("llm provider %q not configured", name))
	}
	if strings.TrimSpace(providerCfg.APIKey) == "" {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("llm provider %q: api key missing", name))
	}

	cfg := &openai.ChatModelConfig{
		APIKey:  providerCfg.APIKey,
		BaseURL: providerCfg.BaseURL,
		Model:   providerCfg.Model,
		Timeout: providerCfg.Timeout,
	}
	// 每次调用都会显式传入温度和 max tokens，这里只设置提供商级别的兜底值
	if providerCfg.MaxTokens > 0 {
		cfg.MaxTokens = &providerCfg.MaxTokens
	}
	if providerCfg.Temperature > 0 {
		cfg.Temperature = ptrFloat32(float32(providerCfg.Temperature))
	}

	chatModel, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("llm provider %q: %v", name, err))
	}
	return chatModel, nil
}

// Default 返回默认 ChatModel
func (f *EinoFactory) Default(ctx context.Context) (model.BaseChatModel, error) {
	return f.Get(ctx, "")
}

// ModelName 返回提供商配置的模型名
func (f *EinoFactory) ModelName(name string) string {
	if p, ok := f.config.Providers[f.resolve(name)]; ok {
		return p.Model
	}
	return ""
}

func (f *EinoFactory) resolve(name string) string {
	if name == "" {
		return f.config.DefaultProvider
	}
	return name
}

func ptrFloat32(f float32) *float32 {
	return &f
}
