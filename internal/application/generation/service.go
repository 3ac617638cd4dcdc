// Package generation 提供各内容类型的生成用例：模板 -> 模型调用 -> 输出规整
package generation

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"infoprod-ai-api/internal/domain/entity"
	wfmodel "infoprod-ai-api/internal/workflow/model"
	workflowprompt "infoprod-ai-api/internal/workflow/prompt"
	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/logger"
	"infoprod-ai-api/pkg/metrics"
)

// TextGenerator 生成客户端的最小依赖，便于测试替换
type TextGenerator interface {
	Generate(ctx context.Context, req *workflowprompt.Request) (string, error)
	Stream(ctx context.Context, req *workflowprompt.Request) (*schema.StreamReader[*schema.Message], error)
	ModelName() string
}

// Service 内容生成服务
type Service struct {
	client TextGenerator
}

func NewService(client TextGenerator) *Service {
	return &Service{client: client}
}

// GenerateSubNiches 生成子细分市场。
// 结构不符时由规整层降级；模型调用失败与 JSON 解析失败向上返回，由编排层决定是否兜底。
func (s *Service) GenerateSubNiches(ctx context.Context, niche entity.NicheSelection) (out []entity.SubNiche, err error) {
	defer observe(ctx, workflowprompt.ContentSubNiches, time.Now(), &err)

	req, err := workflowprompt.BuildSubNichesMessages(wfmodel.SubNichesInput{Niche: niche.Label})
	if err != nil {
		return nil, err
	}
	raw, err := s.client.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return NormalizeSubNiches(ctx, raw)
}

// GenerateProductDetails 生成产品详情，所有失败都向上返回
func (s *Service) GenerateProductDetails(ctx context.Context, niche entity.NicheSelection, subNiche string) (out *entity.ProductDetails, err error) {
	defer observe(ctx, workflowprompt.ContentProductDetails, time.Now(), &err)

	req, err := workflowprompt.BuildProductDetailsMessages(wfmodel.ProductDetailsInput{
		Niche:    niche.Label,
		SubNiche: subNiche,
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.client.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return NormalizeProductDetails(raw)
}

// GenerateTitle 生成标题候选文本
func (s *Service) GenerateTitle(ctx context.Context, niche entity.NicheSelection, subNiche string) (out string, err error) {
	defer observe(ctx, workflowprompt.ContentTitle, time.Now(), &err)

	req, err := workflowprompt.BuildTitleMessages(wfmodel.TitleInput{Niche: niche.Label, SubNiche: subNiche})
	if err != nil {
		return "", err
	}
	raw, err := s.client.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return NormalizeText(raw), nil
}

// GenerateDescription 生成产品描述
func (s *Service) GenerateDescription(ctx context.Context, title string, niche entity.NicheSelection) (out string, err error) {
	defer observe(ctx, workflowprompt.ContentDescription, time.Now(), &err)

	req, err := workflowprompt.BuildDescriptionMessages(wfmodel.DescriptionInput{Title: title, Niche: niche.Label})
	if err != nil {
		return "", err
	}
	raw, err := s.client.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return NormalizeText(raw), nil
}

// GenerateChapter 生成单个章节的 Markdown 正文
func (s *Service) GenerateChapter(ctx context.Context, in wfmodel.ChapterInput) (out string, err error) {
	defer observe(ctx, workflowprompt.ContentChapter, time.Now(), &err)

	req, err := workflowprompt.BuildChapterMessages(in)
	if err != nil {
		return "", err
	}
	raw, err := s.client.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	content := NormalizeText(raw)
	metrics.ChapterWordCount.Observe(float64(len(strings.Fields(content))))
	return content, nil
}

// StreamContent 自由内容的流式生成，调用方负责关闭 StreamReader
func (s *Service) StreamContent(ctx context.Context, prompt string) (*schema.StreamReader[*schema.Message], error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apperrors.NewValidationError("prompt is required")
	}
	req, err := workflowprompt.BuildContentStreamMessages(wfmodel.ContentStreamInput{Prompt: prompt})
	if err != nil {
		return nil, err
	}
	sr, err := s.client.Stream(ctx, req)
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(string(workflowprompt.ContentStream), "error").Inc()
		return nil, err
	}
	metrics.GenerationTotal.WithLabelValues(string(workflowprompt.ContentStream), "started").Inc()
	return sr, nil
}

func observe(ctx context.Context, ct workflowprompt.ContentType, start time.Time, errp *error) {
	status := "success"
	if errp != nil && *errp != nil {
		status = "error"
		logger.Warn(ctx, "content generation failed",
			"content_type", string(ct),
			"error", (*errp).Error(),
		)
	}
	metrics.GenerationTotal.WithLabelValues(string(ct), status).Inc()
	metrics.GenerationDuration.WithLabelValues(string(ct)).Observe(time.Since(start).Seconds())
}
