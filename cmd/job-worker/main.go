// Package main 章节生成任务执行器入口（job-worker）
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"infoprod-ai-api/internal/config"
	"infoprod-ai-api/internal/infrastructure/messaging"
	einoobs "infoprod-ai-api/internal/observability/eino"
	"infoprod-ai-api/internal/wire"
	"infoprod-ai-api/pkg/logger"
	"infoprod-ai-api/pkg/tracer"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracer.Init(ctx, tracer.Config{
		ServiceName: "job-worker",
		Environment: cfg.App.Env,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	einoobs.Init()

	worker, cleanup, err := wire.InitializeWorker(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize worker", err)
	}
	defer cleanup()

	// 与 api-gateway 进程内调度执行同一个 RunChapter
	worker.Consumer.RegisterHandler(messaging.MessageTypeChapterGenerate, messaging.ChapterJobHandler(worker.Ebooks.RunChapter))
	if err := worker.Consumer.Start(ctx); err != nil {
		logger.Fatal(ctx, "failed to start consumer", err)
	}
	logger.Info(ctx, "job-worker started",
		"stream", string(messaging.StreamEbookChapters),
		"group", string(messaging.ConsumerGroupChapterWorker),
	)

	<-ctx.Done()
	logger.Info(context.Background(), "job-worker shutting down")
	worker.Consumer.Stop()
}
