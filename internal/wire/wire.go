//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	gowire "github.com/google/wire"

	"infoprod-ai-api/internal/config"
	"infoprod-ai-api/internal/interfaces/http/router"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	gowire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		GenerationSet,
		ApplicationSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializeWorker 初始化章节任务消费者
func InitializeWorker(ctx context.Context, cfg *config.Config) (*Worker, func(), error) {
	gowire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		GenerationSet,
		ProvideEbookService,
		ProvideConsumer,
		gowire.Struct(new(Worker), "*"),
	)
	return nil, nil, nil
}

// InitializeBootstrap 初始化运维命令依赖
func InitializeBootstrap(ctx context.Context, cfg *config.Config) (*Bootstrap, func(), error) {
	gowire.Build(
		RepoSet,
		RedisSet,
		GenerationSet,
		ProvideAuthService,
		gowire.Struct(new(Bootstrap), "*"),
	)
	return nil, nil, nil
}
