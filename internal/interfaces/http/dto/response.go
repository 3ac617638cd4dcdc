// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"net/http"

	"infoprod-ai-api/internal/domain/repository"

	"github.com/gin-gonic/gin"
)

// Response 资源接口统一信封；生成接口直接返回业务体，不经过这里
type Response[T any] struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Data    T         `json:"data"`
	Meta    *PageMeta `json:"meta,omitempty"`
	TraceID string    `json:"trace_id,omitempty"`
}

// PageMeta 分页元数据
type PageMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageMetaOf 由仓储分页结果生成元数据
func PageMetaOf[T any](p *repository.Page[T]) *PageMeta {
	return &PageMeta{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages(),
	}
}

// ErrorDetail 错误详情
type ErrorDetail struct {
	ErrorCode string `json:"error_code,omitempty"`
	Details   string `json:"details,omitempty"`
}

// ErrorResponse 错误响应结构
type ErrorResponse struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Error   *ErrorDetail `json:"error,omitempty"`
	TraceID string       `json:"trace_id,omitempty"`
}

func envelope[T any](c *gin.Context, status int, message string, data T, meta *PageMeta) {
	c.JSON(status, Response[T]{
		Code:    status,
		Message: message,
		Data:    data,
		Meta:    meta,
		TraceID: c.GetString("trace_id"),
	})
}

// Success 200
func Success[T any](c *gin.Context, data T) {
	envelope(c, http.StatusOK, "success", data, nil)
}

// SuccessWithPage 200，附带分页信息
func SuccessWithPage[T any](c *gin.Context, data T, meta *PageMeta) {
	envelope(c, http.StatusOK, "success", data, meta)
}

// Created 201
func Created[T any](c *gin.Context, data T) {
	envelope(c, http.StatusCreated, "created", data, nil)
}

// Accepted 202，电子书章节已进入后台生成
func Accepted[T any](c *gin.Context, data T) {
	envelope(c, http.StatusAccepted, "accepted", data, nil)
}

// NoContent 204
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ErrorWithDetail 返回带错误码的错误响应
func ErrorWithDetail(c *gin.Context, status int, message string, detail *ErrorDetail) {
	c.JSON(status, ErrorResponse{
		Code:    status,
		Message: message,
		Error:   detail,
		TraceID: c.GetString("trace_id"),
	})
}
