package creation

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"infoprod-ai-api/internal/domain/entity"
	"infoprod-ai-api/pkg/logger"
)

// Scheduler 章节生成任务调度
type Scheduler interface {
	Schedule(ctx context.Context, jobs []entity.ChapterJob) error
}

// ChapterRunner 执行单个章节任务
type ChapterRunner interface {
	RunChapter(ctx context.Context, job entity.ChapterJob) error
}

// InlineScheduler 在当前进程内执行章节任务。
// async 为 true 时任务在后台运行，脱离请求的取消信号；并发度由 limit 控制。
type InlineScheduler struct {
	runner ChapterRunner
	limit  int
	async  bool

	wg sync.WaitGroup
}

func NewInlineScheduler(runner ChapterRunner, limit int, async bool) *InlineScheduler {
	if limit <= 0 {
		limit = 1
	}
	return &InlineScheduler{runner: runner, limit: limit, async: async}
}

// SetRunner 延迟注入 runner（runner 本身依赖调度器时使用）
func (s *InlineScheduler) SetRunner(runner ChapterRunner) {
	s.runner = runner
}

func (s *InlineScheduler) Schedule(ctx context.Context, jobs []entity.ChapterJob) error {
	if len(jobs) == 0 {
		return nil
	}
	if !s.async {
		return s.run(ctx, jobs)
	}

	bg := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.run(bg, jobs); err != nil {
			logger.Error(bg, "inline chapter jobs failed", err, "jobs", len(jobs))
		}
	}()
	return nil
}

// Wait 等待所有后台任务结束（用于优雅退出）
func (s *InlineScheduler) Wait() {
	s.wg.Wait()
}

// run 章节之间互不阻塞：单个任务失败不会取消其它任务
func (s *InlineScheduler) run(ctx context.Context, jobs []entity.ChapterJob) error {
	var g errgroup.Group
	g.SetLimit(s.limit)

	var (
		mu       sync.Mutex
		firstErr error
	)
	for _, job := range jobs {
		g.Go(func() error {
			if err := s.runner.RunChapter(ctx, job); err != nil {
				logger.Error(ctx, "chapter job failed", err,
					"ebook_id", job.EbookID,
					"chapter_id", job.ChapterID,
				)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return firstErr
}
