package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/gin-gonic/gin"

	"infoprod-ai-api/internal/application/generation"
	"infoprod-ai-api/internal/domain/entity"
	"infoprod-ai-api/internal/interfaces/http/dto"
	wfmodel "infoprod-ai-api/internal/workflow/model"
	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/logger"
)

// ContentGenerator 无状态生成接口依赖的生成能力
type ContentGenerator interface {
	GenerateSubNiches(ctx context.Context, niche entity.NicheSelection) ([]entity.SubNiche, error)
	GenerateProductDetails(ctx context.Context, niche entity.NicheSelection, subNiche string) (*entity.ProductDetails, error)
	GenerateTitle(ctx context.Context, niche entity.NicheSelection, subNiche string) (string, error)
	GenerateDescription(ctx context.Context, title string, niche entity.NicheSelection) (string, error)
	GenerateChapter(ctx context.Context, in wfmodel.ChapterInput) (string, error)
	StreamContent(ctx context.Context, prompt string) (*schema.StreamReader[*schema.Message], error)
	CheckConnectivity(ctx context.Context, timeout time.Duration) *generation.ConnectivityReport
}

// GenerationHandler 无状态内容生成，响应体不使用统一信封
type GenerationHandler struct {
	generator           ContentGenerator
	connectivityTimeout time.Duration
}

// NewGenerationHandler 创建生成处理器
func NewGenerationHandler(generator ContentGenerator, connectivityTimeout time.Duration) *GenerationHandler {
	return &GenerationHandler{
		generator:           generator,
		connectivityTimeout: connectivityTimeout,
	}
}

// SubNiches 生成子细分市场
// @Summary 生成子细分市场
// @Tags Generation
// @Accept json
// @Produce json
// @Param body body dto.GenerateSubNichesRequest true "细分市场"
// @Success 200 {object} dto.SubNichesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/generate/subniches [post]
func (h *GenerationHandler) SubNiches(c *gin.Context) {
	var req dto.GenerateSubNichesRequest
	if !bindJSON(c, &req) {
		return
	}
	nicheID := req.NicheID()
	if nicheID == "" {
		respondError(c, apperrors.NewValidationError("Nicho é obrigatório"))
		return
	}

	subNiches, err := h.generator.GenerateSubNiches(c.Request.Context(), entity.SelectNiche(nicheID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SubNichesResponse{SubNichos: subNiches})
}

// ProductDetails 生成产品详情
func (h *GenerationHandler) ProductDetails(c *gin.Context) {
	var req dto.GenerateProductDetailsRequest
	if !bindJSON(c, &req) {
		return
	}
	nicheID, subNiche := req.NicheID(), strings.TrimSpace(req.SubNicho)
	if nicheID == "" || subNiche == "" {
		respondError(c, apperrors.NewValidationError("Nicho e subnicho são obrigatórios"))
		return
	}

	details, err := h.generator.GenerateProductDetails(c.Request.Context(), entity.SelectNiche(nicheID), subNiche)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductDetailsResponse{Detalhes: details})
}

// Title 生成产品标题
func (h *GenerationHandler) Title(c *gin.Context) {
	var req dto.GenerateTitleRequest
	if !bindJSON(c, &req) {
		return
	}
	nicheID, subNiche := req.NicheID(), strings.TrimSpace(req.SubNicho)
	if nicheID == "" || subNiche == "" {
		respondError(c, apperrors.NewValidationError("Nicho e subnicho são obrigatórios"))
		return
	}

	title, err := h.generator.GenerateTitle(c.Request.Context(), entity.SelectNiche(nicheID), subNiche)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TitleResponse{Titulo: title})
}

// Description 生成产品描述
func (h *GenerationHandler) Description(c *gin.Context) {
	var req dto.GenerateDescriptionRequest
	if !bindJSON(c, &req) {
		return
	}
	nicheID, title := req.NicheID(), strings.TrimSpace(req.Titulo)
	if nicheID == "" || title == "" {
		respondError(c, apperrors.NewValidationError("Título e nicho são obrigatórios"))
		return
	}

	description, err := h.generator.GenerateDescription(c.Request.Context(), title, entity.SelectNiche(nicheID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DescriptionResponse{Descricao: description})
}

// EbookChapter 生成单个章节，不写入电子书
// @Summary 生成电子书章节
// @Tags Generation
// @Accept json
// @Produce json
// @Param body body dto.GenerateEbookChapterRequest true "章节信息"
// @Success 200 {object} dto.ChapterContentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/generate/ebook-chapter [post]
func (h *GenerationHandler) EbookChapter(c *gin.Context) {
	var req dto.GenerateEbookChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Complete() {
		respondError(c, apperrors.NewValidationError("Dados incompletos para geração do e-book"))
		return
	}

	content, err := h.generator.GenerateChapter(c.Request.Context(), wfmodel.ChapterInput{
		EbookTitle:       strings.TrimSpace(req.Titulo),
		EbookDescription: strings.TrimSpace(req.Descricao),
		ChapterID:        strings.TrimSpace(req.Capitulo.ID),
		ChapterTitle:     strings.TrimSpace(req.Capitulo.Titulo),
	})
	if err != nil {
		logger.Warn(c.Request.Context(), "ebook chapter generation failed",
			"product_id", req.ProdutoID,
			"chapter_id", req.Capitulo.ID,
			"error", err.Error(),
		)
		respondError(c, apperrors.Wrap(err, apperrors.CodeGenerationFailed, "Falha ao gerar conteúdo do e-book"))
		return
	}
	c.JSON(http.StatusOK, dto.ChapterContentResponse{Conteudo: content})
}

// Diagnostics 检查模型提供商连通性，失败时返回 500 与错误分类
func (h *GenerationHandler) Diagnostics(c *gin.Context) {
	report := h.generator.CheckConnectivity(c.Request.Context(), h.connectivityTimeout)
	status := http.StatusOK
	if !report.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, report)
}
