// Package errors 提供统一的错误定义
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeUnauthorized       ErrorCode = "1002"
	CodeForbidden          ErrorCode = "1003"
	CodeNotFound           ErrorCode = "1004"
	CodeConflict           ErrorCode = "1005"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"
	CodeConfiguration      ErrorCode = "1009"

	// 认证授权错误 (2xxx)
	CodeTokenExpired ErrorCode = "2001"
	CodeTokenInvalid ErrorCode = "2002"
	CodeTokenMissing ErrorCode = "2003"

	// 资源错误 (3xxx)
	CodeProductNotFound ErrorCode = "3001"
	CodeEbookNotFound   ErrorCode = "3002"
	CodeChapterNotFound ErrorCode = "3003"
	CodeSessionNotFound ErrorCode = "3004"

	// 业务错误 (4xxx)
	CodeGenerationFailed ErrorCode = "4001"
	CodeValidationFailed ErrorCode = "4002"
	CodeParseError       ErrorCode = "4003"
	CodeEmptyResponse    ErrorCode = "4004"
	CodeInvalidState     ErrorCode = "4005"

	// 外部服务错误 (5xxx)
	CodeDatabaseError    ErrorCode = "5001"
	CodeCacheError       ErrorCode = "5002"
	CodeQueueError       ErrorCode = "5003"
	CodeLLMProviderError ErrorCode = "5005"
)

var codeNames = map[ErrorCode]string{
	CodeSuccess:            "OK",
	CodeUnknown:            "INTERNAL_ERROR",
	CodeInvalidParam:       "BAD_REQUEST",
	CodeUnauthorized:       "UNAUTHORIZED",
	CodeForbidden:          "FORBIDDEN",
	CodeNotFound:           "NOT_FOUND",
	CodeConflict:           "CONFLICT",
	CodeTooManyRequests:    "RATE_LIMITED",
	CodeInternalError:      "INTERNAL_ERROR",
	CodeServiceUnavailable: "SERVICE_UNAVAILABLE",
	CodeConfiguration:      "CONFIGURATION_ERROR",
	CodeTokenExpired:       "UNAUTHORIZED",
	CodeTokenInvalid:       "UNAUTHORIZED",
	CodeTokenMissing:       "UNAUTHORIZED",
	CodeProductNotFound:    "NOT_FOUND",
	CodeEbookNotFound:      "NOT_FOUND",
	CodeChapterNotFound:    "NOT_FOUND",
	CodeSessionNotFound:    "NOT_FOUND",
	CodeGenerationFailed:   "PROVIDER_ERROR",
	CodeValidationFailed:   "VALIDATION_ERROR",
	CodeParseError:         "PARSE_ERROR",
	CodeEmptyResponse:      "EMPTY_RESPONSE",
	CodeInvalidState:       "CONFLICT",
	CodeDatabaseError:      "PERSISTENCE_ERROR",
	CodeCacheError:         "PERSISTENCE_ERROR",
	CodeQueueError:         "PERSISTENCE_ERROR",
	CodeLLMProviderError:   "PROVIDER_ERROR",
}

// Name 返回错误码的符号名，例如 UNAUTHORIZED、PARSE_ERROR
func (c ErrorCode) Name() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return "INTERNAL_ERROR"
}

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码匹配，便于 errors.Is(err, ErrParse) 这类判断
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail 添加详细信息（返回副本，避免污染预定义错误）
func (e *AppError) WithDetail(detail string) *AppError {
	cp := *e
	cp.Detail = detail
	return &cp
}

// WithError 添加底层错误
func (e *AppError) WithError(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeTokenExpired, CodeTokenInvalid, CodeTokenMissing:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeProductNotFound, CodeEbookNotFound, CodeChapterNotFound, CodeSessionNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvalidState:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case CodeLLMProviderError, CodeParseError, CodeEmptyResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// 预定义错误
var (
	ErrInvalidParam       = New(CodeInvalidParam, "invalid parameter")
	ErrUnauthorized       = New(CodeUnauthorized, "Não autorizado")
	ErrForbidden          = New(CodeForbidden, "forbidden")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrConflict           = New(CodeConflict, "resource conflict")
	ErrTooManyRequests    = New(CodeTooManyRequests, "too many requests")
	ErrInternalError      = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service unavailable")
	ErrConfiguration      = New(CodeConfiguration, "configuration error")

	ErrTokenExpired = New(CodeTokenExpired, "token expired")
	ErrTokenInvalid = New(CodeTokenInvalid, "token invalid")
	ErrTokenMissing = New(CodeTokenMissing, "token missing")

	ErrProductNotFound = New(CodeProductNotFound, "product not found")
	ErrEbookNotFound   = New(CodeEbookNotFound, "ebook not found")
	ErrChapterNotFound = New(CodeChapterNotFound, "chapter not found")
	ErrSessionNotFound = New(CodeSessionNotFound, "creation session not found")

	ErrGenerationFailed = New(CodeGenerationFailed, "generation failed")
	ErrValidationFailed = New(CodeValidationFailed, "validation failed")
	ErrParse            = New(CodeParseError, "Falha ao processar a resposta da API")
	ErrEmptyResponse    = New(CodeEmptyResponse, "Resposta vazia da API")
	ErrInvalidState     = New(CodeInvalidState, "invalid state transition")

	ErrProvider    = New(CodeLLMProviderError, "LLM provider call failed")
	ErrPersistence = New(CodeDatabaseError, "persistence operation failed")
)

// ProviderErrorKind 上游模型调用失败的分类
type ProviderErrorKind string

const (
	ProviderErrorAPIKey     ProviderErrorKind = "api_key"
	ProviderErrorConnection ProviderErrorKind = "connection"
	ProviderErrorRateLimit  ProviderErrorKind = "rate_limit"
	ProviderErrorModel      ProviderErrorKind = "model_error"
	ProviderErrorUnknown    ProviderErrorKind = "unknown"
)

// NewProviderError 创建带分类的模型调用错误，分类写入 Detail
func NewProviderError(kind ProviderErrorKind, err error) *AppError {
	if kind == "" {
		kind = ProviderErrorUnknown
	}
	return &AppError{
		Code:       CodeLLMProviderError,
		Message:    "LLM provider call failed",
		Detail:     string(kind),
		HTTPStatus: codeToHTTPStatus(CodeLLMProviderError),
		Err:        err,
	}
}

// ProviderKind 提取错误链中的 ProviderErrorKind，非模型错误返回空串
func ProviderKind(err error) ProviderErrorKind {
	var appErr *AppError
	if !stderrors.As(err, &appErr) || appErr.Code != CodeLLMProviderError {
		return ""
	}
	if appErr.Detail == "" {
		return ProviderErrorUnknown
	}
	return ProviderErrorKind(appErr.Detail)
}

// NewParseError 结构化输出无法解析
func NewParseError(err error) *AppError {
	return Wrap(err, CodeParseError, ErrParse.Message)
}

// NewEmptyResponseError 调用成功但内容为空
func NewEmptyResponseError() *AppError {
	return New(CodeEmptyResponse, ErrEmptyResponse.Message)
}

// NewConfigurationError 缺少必要配置
func NewConfigurationError(what string) *AppError {
	return New(CodeConfiguration, "configuration error").WithDetail(what)
}

// NewPersistenceError 存储操作失败
func NewPersistenceError(op string, err error) *AppError {
	return Wrap(err, CodeDatabaseError, "persistence operation failed").WithDetail(op)
}

// NewValidationError 参数校验失败
func NewValidationError(detail string) *AppError {
	return ErrValidationFailed.WithDetail(detail)
}

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}
