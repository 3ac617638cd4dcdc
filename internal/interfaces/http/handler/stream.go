// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"infoprod-ai-api/internal/interfaces/http/dto"
	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/logger"
)

// StreamContent 流式生成内容
// @Summary 流式生成内容
// @Description 通过 SSE 推送 chunk 事件，结束时发送 done，出错时发送 error
// @Tags Generation
// @Accept json
// @Produce text/event-stream
// @Param body body dto.ContentStreamRequest true "提示词"
// @Success 200 "SSE stream"
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/generate/content/stream [post]
func (h *GenerationHandler) StreamContent(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ContentStreamRequest
	if !bindJSON(c, &req) {
		return
	}

	sr, err := h.generator.StreamContent(ctx, req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	defer sr.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	index := 0
	length := 0
	c.Stream(func(w io.Writer) bool {
		msg, err := sr.Recv()
		if errors.Is(err, io.EOF) {
			c.SSEvent("done", gin.H{"chunks": index, "length": length})
			return false
		}
		if err != nil {
			// 流读取中断一律来自上游模型，未分类的错误按 unknown 处理
			if !apperrors.IsAppError(err) {
				err = apperrors.NewProviderError(apperrors.ProviderErrorUnknown, err)
			}
			appErr := apperrors.AsAppError(err)
			logger.Warn(ctx, "content stream aborted", "chunks", index, "error", err.Error())
			c.SSEvent("error", gin.H{
				"message":    appErr.Message,
				"error_code": appErr.Code.Name(),
			})
			return false
		}
		if msg == nil || msg.Content == "" {
			return true
		}
		c.SSEvent("chunk", gin.H{
			"content": msg.Content,
			"index":   index,
		})
		index++
		length += len(msg.Content)
		return true
	})
}
