package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyContentType llmCtxKey = "llm_content_type"
	llmCtxKeyProvider    llmCtxKey = "llm_provider"
)

// WithContentType 标记本次模型调用生成的内容类型（subniches/title/chapter 等）
func WithContentType(ctx context.Context, contentType string) context.Context {
	if ctx == nil {
		return nil
	}
	c := strings.TrimSpace(contentType)
	if c == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyContentType, c)
}

func WithProvider(ctx context.Context, provider string) context.Context {
	if ctx == nil {
		return nil
	}
	p := strings.TrimSpace(provider)
	if p == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyProvider, p)
}

func WithContentTypeProvider(ctx context.Context, contentType, provider string) context.Context {
	return WithProvider(WithContentType(ctx, contentType), provider)
}

func ContentTypeFromContext(ctx context.Context) string {
	return stringFromContext(ctx, llmCtxKeyContentType)
}

func ProviderFromContext(ctx context.Context) string {
	return stringFromContext(ctx, llmCtxKeyProvider)
}

func stringFromContext(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return "unknown"
	}
	s, ok := ctx.Value(key).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return strings.TrimSpace(s)
}
