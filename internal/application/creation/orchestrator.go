// Package creation 编排信息产品的创作流程：细分市场 -> 子细分 -> 产品详情 -> 电子书
package creation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"infoprod-ai-api/internal/domain/entity"
	"infoprod-ai-api/internal/domain/repository"
	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/logger"
	"infoprod-ai-api/pkg/metrics"
)

// DefaultSessionTTL 创作会话默认有效期
const DefaultSessionTTL = 2 * time.Hour

// ContentGenerator 编排层需要的生成能力
type ContentGenerator interface {
	GenerateSubNiches(ctx context.Context, niche entity.NicheSelection) ([]entity.SubNiche, error)
	GenerateProductDetails(ctx context.Context, niche entity.NicheSelection, subNiche string) (*entity.ProductDetails, error)
}

// EbookCreator 保存产品时创建电子书
type EbookCreator interface {
	CreateForProduct(ctx context.Context, product *entity.Product) (*entity.Ebook, error)
}

// DraftPatch 草稿编辑，nil 字段保持不变
type DraftPatch struct {
	Title            *string
	Description      *string
	HasEbook         *bool
	TargetAudience   *string
	FeaturesBenefits []string
}

// SaveResult 保存结果
type SaveResult struct {
	Session *entity.CreationSession
	Product *entity.Product
	Ebook   *entity.Ebook
}

// Orchestrator 创作流程状态机，会话保存在 CreationSessionStore 中
type Orchestrator struct {
	sessions  repository.CreationSessionStore
	products  repository.ProductRepository
	generator ContentGenerator
	ebooks    EbookCreator
	ttl       time.Duration
}

func NewOrchestrator(
	sessions repository.CreationSessionStore,
	products repository.ProductRepository,
	generator ContentGenerator,
	ebooks EbookCreator,
	ttl time.Duration,
) *Orchestrator {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Orchestrator{
		sessions:  sessions,
		products:  products,
		generator: generator,
		ebooks:    ebooks,
		ttl:       ttl,
	}
}

// Start 开启新的创作会话
func (o *Orchestrator) Start(ctx context.Context, userID string) (*entity.CreationSession, error) {
	session := entity.NewCreationSession(uuid.NewString(), userID)
	if err := o.sessions.Save(ctx, session, o.ttl); err != nil {
		return nil, err
	}
	logger.Info(ctx, "creation session started", "session_id", session.ID)
	return session, nil
}

// Get 获取会话，不属于该用户时视为不存在
func (o *Orchestrator) Get(ctx context.Context, userID, sessionID string) (*entity.CreationSession, error) {
	session, err := o.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.IsOwnedBy(userID) {
		return nil, apperrors.ErrSessionNotFound
	}
	return session, nil
}

// RequestSubNiches 为细分市场生成子细分。
// 生成或解析失败、结果为空时使用静态兜底列表，此方法不会因生成失败而报错。
func (o *Orchestrator) RequestSubNiches(ctx context.Context, userID, sessionID, nicheID string) (*entity.CreationSession, error) {
	nicheID = strings.TrimSpace(nicheID)
	if nicheID == "" {
		return nil, apperrors.NewValidationError("Nicho é obrigatório")
	}
	ctx = logger.WithContext(ctx, logger.SessionIDKey, sessionID)
	session, err := o.open(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	niche := entity.SelectNiche(nicheID)
	subNiches, genErr := o.generator.GenerateSubNiches(ctx, niche)
	fallback := false
	if genErr != nil || len(subNiches) == 0 {
		fallback = true
		subNiches = FallbackForNiche(niche.ID)
		metrics.SubNicheFallbackTotal.WithLabelValues("orchestrator", string(niche.ID)).Inc()
		if genErr != nil {
			logger.Warn(ctx, "subniche generation failed, using fallback", "niche", niche.ID, "error", genErr.Error())
		} else {
			logger.Warn(ctx, "subniche generation returned nothing, using fallback", "niche", niche.ID)
		}
	}

	session.Niche = &niche
	session.SubNiches = subNiches
	session.SubNichesFallback = fallback
	session.SelectedSubNiche = ""
	session.Details = nil
	session.Draft = nil
	session.State = entity.CreationStateChoosingSubNiche
	return o.save(ctx, session)
}

// SelectSubNiche 记录选中的子细分，可以是候选之一或任意非空标题
func (o *Orchestrator) SelectSubNiche(ctx context.Context, userID, sessionID, title string) (*entity.CreationSession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.NewValidationError("subnicho is required")
	}
	session, err := o.open(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Niche == nil {
		return nil, apperrors.ErrInvalidState.WithDetail("niche not chosen")
	}

	session.SelectedSubNiche = title
	session.Details = nil
	session.Draft = nil
	session.State = entity.CreationStateChoosingSubNiche
	return o.save(ctx, session)
}

// RequestProductDetails 生成产品详情并以此初始化草稿。
// 失败时返回错误，会话保持原状态。
func (o *Orchestrator) RequestProductDetails(ctx context.Context, userID, sessionID string) (*entity.CreationSession, error) {
	session, err := o.open(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Niche == nil || session.SelectedSubNiche == "" {
		return nil, apperrors.ErrInvalidState.WithDetail("niche and subniche are required")
	}

	details, err := o.generator.GenerateProductDetails(ctx, *session.Niche, session.SelectedSubNiche)
	if err != nil {
		return nil, err
	}

	session.Details = details
	session.Draft = &entity.ProductDraft{
		Title:            details.Name,
		Description:      details.Description,
		TargetAudience:   details.TargetAudience,
		FeaturesBenefits: append([]string(nil), details.FeaturesBenefits...),
	}
	session.State = entity.CreationStateEditingProductDetails
	return o.save(ctx, session)
}

// EditDraft 编辑产品草稿
func (o *Orchestrator) EditDraft(ctx context.Context, userID, sessionID string, patch DraftPatch) (*entity.CreationSession, error) {
	session, err := o.open(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != entity.CreationStateEditingProductDetails || session.Draft == nil {
		return nil, apperrors.ErrInvalidState.WithDetail("product details not generated")
	}

	d := session.Draft
	if patch.Title != nil {
		d.Title = *patch.Title
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.HasEbook != nil {
		d.HasEbook = *patch.HasEbook
	}
	if patch.TargetAudience != nil {
		d.TargetAudience = *patch.TargetAudience
	}
	if patch.FeaturesBenefits != nil {
		d.FeaturesBenefits = patch.FeaturesBenefits
	}
	return o.save(ctx, session)
}

// Save 持久化产品；勾选电子书时创建电子书并调度章节生成
func (o *Orchestrator) Save(ctx context.Context, userID, sessionID string) (*SaveResult, error) {
	ctx = logger.WithContext(ctx, logger.SessionIDKey, sessionID)
	session, err := o.open(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Draft == nil || session.Niche == nil {
		return nil, apperrors.ErrInvalidState.WithDetail("product details not generated")
	}

	product, err := o.persistProduct(ctx, session)
	if err != nil {
		return nil, err
	}
	result := &SaveResult{Product: product}
	session.State = entity.CreationStateSaved

	if product.HasEbook {
		ebook, err := o.ebooks.CreateForProduct(ctx, product)
		if err != nil {
			return nil, err
		}
		result.Ebook = ebook
		session.EbookID = ebook.ID
		session.State = entity.CreationStateGeneratingEbook
	}

	if result.Session, err = o.save(ctx, session); err != nil {
		return nil, err
	}
	logger.Info(ctx, "creation session saved", "product_id", product.ID, "has_ebook", product.HasEbook)
	return result, nil
}

// persistProduct 创建产品并立即把 ProductID 写回会话。
// 之前的保存已经落库产品（例如随后创建电子书失败）时直接复用，重试不会产生第二个产品。
func (o *Orchestrator) persistProduct(ctx context.Context, session *entity.CreationSession) (*entity.Product, error) {
	if session.ProductID != "" {
		product, err := o.products.GetByID(ctx, session.UserID, session.ProductID)
		if err != nil {
			return nil, err
		}
		if product != nil {
			logger.Info(ctx, "resuming save of persisted product", "product_id", product.ID)
			return product, nil
		}
	}

	d := session.Draft
	product := entity.NewProduct(session.UserID, strings.TrimSpace(d.Title), strings.TrimSpace(d.Description), string(session.Niche.ID), session.SelectedSubNiche)
	product.HasEbook = d.HasEbook
	product.TargetAudience = d.TargetAudience
	product.FeaturesBenefits = append(product.FeaturesBenefits, d.FeaturesBenefits...)
	if missing := product.MissingRequired(); len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields: " + strings.Join(missing, ", "))
	}

	if err := o.products.Create(ctx, product); err != nil {
		return nil, err
	}
	session.ProductID = product.ID
	if _, err := o.save(ctx, session); err != nil {
		return nil, err
	}
	return product, nil
}

// open 获取可变更的会话
func (o *Orchestrator) open(ctx context.Context, userID, sessionID string) (*entity.CreationSession, error) {
	session, err := o.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsClosed() {
		return nil, apperrors.ErrInvalidState.WithDetail("session already saved")
	}
	return session, nil
}

func (o *Orchestrator) save(ctx context.Context, session *entity.CreationSession) (*entity.CreationSession, error) {
	session.Touch()
	if err := o.sessions.Save(ctx, session, o.ttl); err != nil {
		return nil, err
	}
	return session, nil
}
