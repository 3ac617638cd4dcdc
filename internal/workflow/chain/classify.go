package chain

import (
	"context"
	"errors"
	"net"
	"net/http"

	goopenai "github.com/meguminnnnnnnnn/go-openai"

	apperrors "infoprod-ai-api/pkg/errors"
)

// ClassifyProviderError 按错误类型（而非错误文本）判断上游失败分类
func ClassifyProviderError(err error) apperrors.ProviderErrorKind {
	if err == nil {
		return ""
	}
	if kind := apperrors.ProviderKind(err); kind != "" {
		return kind
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.ProviderErrorConnection
	}

	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return kindFromStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return kindFromStatus(reqErr.HTTPStatusCode)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return apperrors.ProviderErrorConnection
	}

	return apperrors.ProviderErrorUnknown
}

func kindFromStatus(status int) apperrors.ProviderErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.ProviderErrorAPIKey
	case status == http.StatusTooManyRequests:
		return apperrors.ProviderErrorRateLimit
	case status == http.StatusNotFound || status == http.StatusBadRequest:
		return apperrors.ProviderErrorModel
	case status >= http.StatusInternalServerError:
		return apperrors.ProviderErrorConnection
	default:
		return apperrors.ProviderErrorUnknown
	}
}
