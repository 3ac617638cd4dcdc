// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"fmt"
	"os"

	gowire "github.com/google/wire"

	"infoprod-ai-api/internal/application/auth"
	"infoprod-ai-api/internal/application/creation"
	"infoprod-ai-api/internal/application/dashboard"
	"infoprod-ai-api/internal/application/export"
	"infoprod-ai-api/internal/application/generation"
	"infoprod-ai-api/internal/config"
	"infoprod-ai-api/internal/domain/repository"
	"infoprod-ai-api/internal/infrastructure/llm"
	"infoprod-ai-api/internal/infrastructure/messaging"
	"infoprod-ai-api/internal/infrastructure/persistence/postgres"
	"infoprod-ai-api/internal/infrastructure/persistence/redis"
	"infoprod-ai-api/internal/interfaces/http/handler"
	"infoprod-ai-api/internal/interfaces/http/middleware"
	"infoprod-ai-api/internal/interfaces/http/router"
	"infoprod-ai-api/internal/workflow/chain"
	"infoprod-ai-api/pkg/logger"
)

// Worker 章节任务消费者及其依赖
type Worker struct {
	Consumer *messaging.Consumer
	Ebooks   *creation.EbookService
}

// Bootstrap 运维命令需要的依赖
type Bootstrap struct {
	Postgres   *postgres.Client
	Auth       *auth.Service
	Generation *generation.Service
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = gowire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewProfileRepository,
	postgres.NewProductRepository,
	postgres.NewEbookRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = gowire.NewSet(
	PostgresSet,
	gowire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	gowire.Bind(new(repository.ProfileRepository), new(*postgres.ProfileRepository)),
	gowire.Bind(new(repository.ProductRepository), new(*postgres.ProductRepository)),
	gowire.Bind(new(repository.EbookRepository), new(*postgres.EbookRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = gowire.NewSet(
	ProvideRedisClient,
	redis.NewRateLimiter,
	redis.NewCreationSessionStore,
	redis.NewTokenDenylist,
	gowire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
	gowire.Bind(new(repository.CreationSessionStore), new(*redis.CreationSessionStore)),
	gowire.Bind(new(repository.TokenDenylist), new(*redis.TokenDenylist)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = gowire.NewSet(
	ProvideMessagingProducer,
)

// GenerationSet 模型调用与内容生成
var GenerationSet = gowire.NewSet(
	llm.NewEinoFactory,
	ProvideGenerationClient,
	generation.NewService,
	gowire.Bind(new(generation.TextGenerator), new(*chain.GenerationClient)),
	gowire.Bind(new(creation.ChapterGenerator), new(*generation.Service)),
	gowire.Bind(new(creation.ContentGenerator), new(*generation.Service)),
	gowire.Bind(new(handler.ContentGenerator), new(*generation.Service)),
)

// ApplicationSet 应用服务
var ApplicationSet = gowire.NewSet(
	ProvideAuthService,
	ProvideEbookService,
	ProvideOrchestrator,
	dashboard.NewService,
	export.NewRenderer,
	gowire.Bind(new(creation.EbookCreator), new(*creation.EbookService)),
	gowire.Bind(new(handler.ProductEbooks), new(*creation.EbookService)),
	gowire.Bind(new(middleware.Authenticator), new(*auth.Service)),
)

// RouterSet 路由器提供者集合
var RouterSet = gowire.NewSet(
	ProvideHealthHandler,
	ProvideAuthHandler,
	ProvideGenerationHandler,
	handler.NewCreationHandler,
	handler.NewProductHandler,
	handler.NewEbookHandler,
	handler.NewDashboardHandler,
	gowire.Struct(new(router.Handlers), "*"),
	router.New,
)

// ProvidePostgresClient 提供 PostgreSQL 客户端；连接在首次使用时建立
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func()) {
	client := postgres.NewClient(&cfg.Database.Postgres)
	return client, func() { _ = client.Close() }
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func()) {
	client := redis.NewClient(&cfg.Cache.Redis)
	return client, func() { _ = client.Close() }
}

// ProvideMessagingProducer 提供消息生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 10000
	}
	return messaging.NewProducer(redisClient.Redis(), int64(maxLen))
}

// ProvideGenerationClient 使用默认提供商的生成客户端
func ProvideGenerationClient(cfg *config.Config, factory *llm.EinoFactory) *chain.GenerationClient {
	return chain.NewGenerationClient(factory, cfg.LLM.DefaultProvider)
}

// ProvideAuthService 提供认证服务
func ProvideAuthService(cfg *config.Config, profiles repository.ProfileRepository, denylist repository.TokenDenylist) *auth.Service {
	return auth.NewService(profiles, denylist, auth.Config{
		Secret:     cfg.Security.JWT.Secret,
		Issuer:     cfg.Security.JWT.Issuer,
		AccessTTL:  cfg.Security.JWT.Expiration,
		RefreshTTL: cfg.Security.JWT.RefreshExpiration,
	})
}

// ProvideEbookService 按 creation.scheduler 组装电子书服务与章节调度器。
// inline 模式下调度器与服务互相引用，cleanup 会等待后台章节任务结束。
func ProvideEbookService(
	ctx context.Context,
	cfg *config.Config,
	ebooks repository.EbookRepository,
	generator creation.ChapterGenerator,
	producer *messaging.Producer,
) (*creation.EbookService, func(), error) {
	plan := creation.ParsePlannedChapters(cfg.Creation.PlannedChapters)
	if len(plan) == 0 {
		plan = creation.ParsePlannedChapters(config.DefaultPlannedChapters)
	}

	if cfg.Creation.StreamScheduling() {
		svc := creation.NewEbookService(ebooks, generator, messaging.NewStreamScheduler(producer), plan)
		svc.SetStaleAfter(cfg.Creation.StaleGeneration)
		return svc, func() {}, nil
	}

	scheduler := creation.NewInlineScheduler(nil, cfg.Creation.ChapterConcurrency, true)
	svc := creation.NewEbookService(ebooks, generator, scheduler, plan)
	svc.SetStaleAfter(cfg.Creation.StaleGeneration)
	scheduler.SetRunner(svc)
	logger.Debug(ctx, "chapter jobs run in-process", "concurrency", cfg.Creation.ChapterConcurrency)
	return svc, scheduler.Wait, nil
}

// ProvideOrchestrator 提供创作流程编排器
func ProvideOrchestrator(
	cfg *config.Config,
	sessions repository.CreationSessionStore,
	products repository.ProductRepository,
	generator creation.ContentGenerator,
	ebooks creation.EbookCreator,
) *creation.Orchestrator {
	return creation.NewOrchestrator(sessions, products, generator, ebooks, cfg.Creation.SessionTTL)
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, pg *postgres.Client, redisClient *redis.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(cfg.App.Version, pg, redisClient)
}

// ProvideAuthHandler 提供认证处理器
func ProvideAuthHandler(cfg *config.Config, svc *auth.Service) *handler.AuthHandler {
	return handler.NewAuthHandler(svc, cfg.Server.HTTP.CookieSecure)
}

// ProvideGenerationHandler 提供生成处理器
func ProvideGenerationHandler(cfg *config.Config, generator handler.ContentGenerator) *handler.GenerationHandler {
	return handler.NewGenerationHandler(generator, cfg.LLM.ConnectivityTimeout)
}

// ProvideConsumer 提供章节任务消费者
func ProvideConsumer(cfg *config.Config, redisClient *redis.Client) *messaging.Consumer {
	rs := cfg.Messaging.RedisStream
	group := messaging.ConsumerGroupChapterWorker
	if rs.ConsumerGroupPrefix != "" {
		group = messaging.ConsumerGroup(rs.ConsumerGroupPrefix + "-" + string(group))
	}
	return messaging.NewConsumer(redisClient.Redis(), messaging.ConsumerConfig{
		Stream:        messaging.StreamEbookChapters,
		Group:         group,
		ConsumerName:  consumerName(),
		BlockTimeout:  rs.BlockTimeout,
		ClaimInterval: rs.ClaimInterval,
		RetryLimit:    rs.RetryLimit,
		Backoff: messaging.BackoffConfig{
			Initial:    rs.RetryBackoff.Initial,
			Max:        rs.RetryBackoff.Max,
			Multiplier: rs.RetryBackoff.Multiplier,
		},
	})
}

func consumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
