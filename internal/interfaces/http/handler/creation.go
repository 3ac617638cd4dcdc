package handler

import (
	"github.com/gin-gonic/gin"

	"infoprod-ai-api/internal/application/creation"
	"infoprod-ai-api/internal/domain/entity"
	"infoprod-ai-api/internal/interfaces/http/dto"
)

// CreationHandler 创作流程处理器
type CreationHandler struct {
	orchestrator *creation.Orchestrator
}

// NewCreationHandler 创建创作流程处理器
func NewCreationHandler(orchestrator *creation.Orchestrator) *CreationHandler {
	return &CreationHandler{orchestrator: orchestrator}
}

// Niches 返回细分市场目录
func (h *CreationHandler) Niches(c *gin.Context) {
	dto.Success(c, dto.ToNicheResponses(entity.Niches()))
}

// StartSession 开启创作会话
// @Summary 开启创作会话
// @Tags Creation
// @Produce json
// @Success 201 {object} dto.Response[entity.CreationSession]
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/creation/sessions [post]
func (h *CreationHandler) StartSession(c *gin.Context) {
	session, err := h.orchestrator.Start(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, session)
}

// GetSession 查询会话状态
func (h *CreationHandler) GetSession(c *gin.Context) {
	session, err := h.orchestrator.Get(c.Request.Context(), currentUserID(c), dto.BindSessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, session)
}

// RequestSubNiches 为会话生成子细分，生成失败时使用兜底列表
func (h *CreationHandler) RequestSubNiches(c *gin.Context) {
	var req dto.RequestSubNichesBody
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.orchestrator.RequestSubNiches(c.Request.Context(), currentUserID(c), dto.BindSessionID(c), req.NicheID())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, session)
}

// SelectSubNiche 选择子细分
func (h *CreationHandler) SelectSubNiche(c *gin.Context) {
	var req dto.SelectSubNicheRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.orchestrator.SelectSubNiche(c.Request.Context(), currentUserID(c), dto.BindSessionID(c), req.SubNicho)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, session)
}

// RequestDetails 生成产品详情并初始化草稿
func (h *CreationHandler) RequestDetails(c *gin.Context) {
	session, err := h.orchestrator.RequestProductDetails(c.Request.Context(), currentUserID(c), dto.BindSessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, session)
}

// EditDraft 编辑草稿
func (h *CreationHandler) EditDraft(c *gin.Context) {
	var req dto.EditDraftRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.orchestrator.EditDraft(c.Request.Context(), currentUserID(c), dto.BindSessionID(c), creation.DraftPatch{
		Title:            req.Title,
		Description:      req.Description,
		HasEbook:         req.HasEbook,
		TargetAudience:   req.TargetAudience,
		FeaturesBenefits: req.FeaturesBenefits,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, session)
}

// Save 保存产品，勾选电子书时开始生成
// @Summary 保存创作结果
// @Tags Creation
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 201 {object} dto.Response[dto.SaveCreationResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/creation/sessions/{sid}/save [post]
func (h *CreationHandler) Save(c *gin.Context) {
	result, err := h.orchestrator.Save(c.Request.Context(), currentUserID(c), dto.BindSessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, &dto.SaveCreationResponse{
		Session: result.Session,
		Product: dto.ToProductResponse(result.Product),
		Ebook:   dto.ToEbookResponse(result.Ebook, false),
	})
}
