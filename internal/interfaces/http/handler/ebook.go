package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"infoprod-ai-api/internal/application/auth"
	"infoprod-ai-api/internal/application/creation"
	"infoprod-ai-api/internal/application/export"
	"infoprod-ai-api/internal/interfaces/http/dto"
	"infoprod-ai-api/pkg/logger"
)

// EbookHandler 电子书处理器
type EbookHandler struct {
	ebooks   *creation.EbookService
	renderer *export.Renderer
	auth     *auth.Service
}

// NewEbookHandler 创建电子书处理器
func NewEbookHandler(ebooks *creation.EbookService, renderer *export.Renderer, authSvc *auth.Service) *EbookHandler {
	return &EbookHandler{
		ebooks:   ebooks,
		renderer: renderer,
		auth:     authSvc,
	}
}

// ListEbooks 获取电子书列表（不含正文）
func (h *EbookHandler) ListEbooks(c *gin.Context) {
	ebooks, err := h.ebooks.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToEbookSummaries(ebooks))
}

// GetEbook 获取电子书及章节正文
func (h *EbookHandler) GetEbook(c *gin.Context) {
	ebook, err := h.ebooks.Get(c.Request.Context(), currentUserID(c), dto.BindEbookID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToEbookResponse(ebook, true))
}

// Regenerate 整本重新生成
// @Summary 重新生成电子书
// @Description 所有章节回到 pending 并重新调度；生成中的电子书返回 409
// @Tags Ebooks
// @Produce json
// @Param eid path string true "电子书 ID"
// @Success 202 {object} dto.Response[dto.EbookResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/ebooks/{eid}/regenerate [post]
func (h *EbookHandler) Regenerate(c *gin.Context) {
	ebook, err := h.ebooks.Regenerate(c.Request.Context(), currentUserID(c), dto.BindEbookID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Accepted(c, dto.ToEbookResponse(ebook, false))
}

// RenderHTML 返回清洗后的 HTML 文档
func (h *EbookHandler) RenderHTML(c *gin.Context) {
	ebook, err := h.ebooks.Get(c.Request.Context(), currentUserID(c), dto.BindEbookID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(h.renderer.RenderEbook(ebook)))
}

// ExportEPUB 导出 EPUB，作者为用户资料中的姓名
func (h *EbookHandler) ExportEPUB(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	ebook, err := h.ebooks.Get(ctx, userID, dto.BindEbookID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	author := ""
	if profile, err := h.auth.Profile(ctx, userID); err == nil {
		author = profile.Name
	} else {
		logger.Warn(ctx, "profile unavailable for epub author", "error", err.Error())
	}

	data, err := h.renderer.BuildEPUB(ebook, author)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ebook-%s.epub"`, ebook.ID))
	c.Data(http.StatusOK, "application/epub+zip", data)
}
