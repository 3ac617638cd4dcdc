// Package handler 提供 HTTP 请求处理器
package handler

import (
	"net/http"

	"infoprod-ai-api/internal/interfaces/http/dto"
	"infoprod-ai-api/internal/interfaces/http/middleware"
	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// respondError 将错误转换为统一错误响应。
// 校验错误直接把 Detail 作为提示信息返回给用户。
func respondError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	appErr := apperrors.AsAppError(err)

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	message := appErr.Message
	if appErr.Code == apperrors.CodeValidationFailed && appErr.Detail != "" {
		message = appErr.Detail
	}

	detail := &dto.ErrorDetail{ErrorCode: appErr.Code.Name()}
	if status < http.StatusInternalServerError || appErr.Code == apperrors.CodeLLMProviderError {
		detail.Details = appErr.Detail
	}

	if status >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed", err, "path", c.FullPath(), "status", status)
	} else {
		logger.Debug(ctx, "request rejected", "path", c.FullPath(), "status", status, "error", err.Error())
	}

	dto.ErrorWithDetail(c, status, message, detail)
}

// bindJSON 绑定请求体，失败时直接返回 400
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, apperrors.ErrInvalidParam.WithDetail(err.Error()))
		return false
	}
	return true
}

// currentUserID 读取已认证用户；路由组已挂载 RequireAuth
func currentUserID(c *gin.Context) string {
	return middleware.GetUserIDFromGin(c)
}
