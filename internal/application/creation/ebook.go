package creation

import (
	"context"
	"errors"
	"time"

	"infoprod-ai-api/internal/domain/entity"
	"infoprod-ai-api/internal/domain/repository"
	wfmodel "infoprod-ai-api/internal/workflow/model"
	workflowprompt "infoprod-ai-api/internal/workflow/prompt"
	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/logger"
	"infoprod-ai-api/pkg/metrics"
)

// DefaultStaleAfter generating 状态超过该时长后允许整本重新生成
const DefaultStaleAfter = 15 * time.Minute

// errChapterFinished 章节已是 completed 或 error
var errChapterFinished = errors.New("chapter already finished")

// ChapterGenerator 章节正文生成
type ChapterGenerator interface {
	GenerateChapter(ctx context.Context, in wfmodel.ChapterInput) (string, error)
}

// EbookService 电子书创建、章节生成与整本重新生成
type EbookService struct {
	ebooks    repository.EbookRepository
	generator ChapterGenerator
	scheduler Scheduler
	plan      []entity.PlannedChapter

	staleAfter time.Duration
}

func NewEbookService(ebooks repository.EbookRepository, generator ChapterGenerator, scheduler Scheduler, plan []entity.PlannedChapter) *EbookService {
	return &EbookService{
		ebooks:     ebooks,
		generator:  generator,
		scheduler:  scheduler,
		plan:       plan,
		staleAfter: DefaultStaleAfter,
	}
}

// SetStaleAfter 设置卡住判定时长，非正数时使用默认值
func (s *EbookService) SetStaleAfter(d time.Duration) {
	if d <= 0 {
		d = DefaultStaleAfter
	}
	s.staleAfter = d
}

// Plan 返回章节规划
func (s *EbookService) Plan() []entity.PlannedChapter {
	out := make([]entity.PlannedChapter, len(s.plan))
	copy(out, s.plan)
	return out
}

// CreateForProduct 为产品创建电子书并调度所有章节。
// 已存在时直接返回，保证每个产品只有一本电子书。
func (s *EbookService) CreateForProduct(ctx context.Context, product *entity.Product) (*entity.Ebook, error) {
	existing, err := s.ebooks.GetByProductID(ctx, product.UserID, product.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	ebook := entity.NewEbook(product, s.plan)
	if err := s.ebooks.Create(ctx, ebook); err != nil {
		return nil, err
	}

	ctx = logger.WithContext(ctx, logger.EbookIDKey, ebook.ID)
	logger.Info(ctx, "ebook created", "product_id", product.ID, "chapters", len(ebook.Chapters))
	s.schedule(ctx, ebook)
	return ebook, nil
}

// RunChapter 生成单个章节：pending -> generating -> completed|error。
// 模型失败只记录到章节状态，不向调度方返回错误（不自动重试）；仓储错误会返回。
func (s *EbookService) RunChapter(ctx context.Context, job entity.ChapterJob) error {
	ctx = logger.WithContext(ctx, logger.EbookIDKey, job.EbookID)
	role := workflowprompt.ClassifyChapterRole(job.ChapterID)

	var chapter entity.Chapter
	ebook, err := s.ebooks.Mutate(ctx, job.UserID, job.EbookID, func(e *entity.Ebook) error {
		ch := e.Chapter(job.ChapterID)
		if ch == nil {
			return apperrors.ErrChapterNotFound
		}
		if !e.StartChapter(job.ChapterID) {
			return errChapterFinished
		}
		chapter = *ch
		return nil
	})
	if errors.Is(err, errChapterFinished) {
		// 重复投递：章节已结束，内容只写一次
		logger.Info(ctx, "chapter already finished, skipping job", "chapter_id", job.ChapterID)
		metrics.ChapterJobsTotal.WithLabelValues(string(role), "skipped").Inc()
		return nil
	}
	if err != nil {
		return err
	}
	if ebook == nil {
		return apperrors.ErrEbookNotFound
	}

	content, genErr := s.generator.GenerateChapter(ctx, wfmodel.ChapterInput{
		EbookTitle:       ebook.Title,
		EbookDescription: ebook.Description,
		ChapterID:        chapter.ID,
		ChapterTitle:     chapter.Title,
	})

	_, err = s.ebooks.Mutate(ctx, job.UserID, job.EbookID, func(e *entity.Ebook) error {
		if genErr != nil {
			e.FailChapter(job.ChapterID, chapterFailureReason(genErr))
			return nil
		}
		e.CompleteChapter(job.ChapterID, content)
		return nil
	})
	if err != nil {
		return err
	}

	if genErr != nil {
		metrics.ChapterJobsTotal.WithLabelValues(string(role), "error").Inc()
		logger.Warn(ctx, "chapter generation failed", "chapter_id", job.ChapterID, "error", genErr.Error())
		return nil
	}
	metrics.ChapterJobsTotal.WithLabelValues(string(role), "completed").Inc()
	return nil
}

// Regenerate 整本重新生成：章节列表不变，全部回到 pending 后重新调度。
// 生成中的电子书只有在 staleAfter 内没有任何进展时才允许重新生成（任务进入死信或进程中断）。
func (s *EbookService) Regenerate(ctx context.Context, userID, ebookID string) (*entity.Ebook, error) {
	ebook, err := s.ebooks.Mutate(ctx, userID, ebookID, func(e *entity.Ebook) error {
		if e.Status == entity.EbookStatusGenerating && time.Since(e.UpdatedAt) < s.staleAfter {
			return apperrors.ErrInvalidState.WithDetail("ebook is still generating")
		}
		if e.Status == entity.EbookStatusGenerating {
			logger.Warn(ctx, "regenerating stale ebook", "updated_at", e.UpdatedAt)
		}
		e.ResetChapters()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if ebook == nil {
		return nil, apperrors.ErrEbookNotFound
	}

	s.schedule(ctx, ebook)
	return ebook, nil
}

// Get 获取用户的电子书
func (s *EbookService) Get(ctx context.Context, userID, id string) (*entity.Ebook, error) {
	ebook, err := s.ebooks.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if ebook == nil {
		return nil, apperrors.ErrEbookNotFound
	}
	return ebook, nil
}

// List 获取用户全部电子书
func (s *EbookService) List(ctx context.Context, userID string) ([]*entity.Ebook, error) {
	return s.ebooks.ListByUser(ctx, userID)
}

// DeleteForProduct 删除产品对应的电子书
func (s *EbookService) DeleteForProduct(ctx context.Context, userID, productID string) error {
	return s.ebooks.DeleteByProductID(ctx, userID, productID)
}

// schedule 调度失败时章节保持 pending，用户可以整本重新生成
func (s *EbookService) schedule(ctx context.Context, ebook *entity.Ebook) {
	if s.scheduler == nil {
		return
	}
	jobs := ebook.PendingJobs()
	if err := s.scheduler.Schedule(ctx, jobs); err != nil {
		logger.Error(ctx, "failed to schedule chapter jobs", err, "jobs", len(jobs))
	}
}

func chapterFailureReason(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Detail != "" {
			return appErr.Message + ": " + appErr.Detail
		}
		return appErr.Message
	}
	return "Falha ao gerar conteúdo do e-book"
}
