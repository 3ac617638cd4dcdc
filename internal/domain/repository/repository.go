// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"strings"
)

// TxKey 事务上下文键类型
type TxKey struct{}

// Transactor 事务管理接口
type Transactor interface {
	// WithTransaction 在事务中执行操作，fn 内的仓储调用共享同一事务
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ProductQuery 产品列表查询条件
type ProductQuery struct {
	Niche    string `form:"niche"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// Normalize 修正页码与每页条数，去掉细分市场两端空白
func (q ProductQuery) Normalize() ProductQuery {
	q.Niche = strings.TrimSpace(q.Niche)
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.PageSize < 1:
		q.PageSize = defaultPageSize
	case q.PageSize > maxPageSize:
		q.PageSize = maxPageSize
	}
	return q
}

// Offset 计算偏移量
func (q ProductQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Page 一页查询结果
type Page[T any] struct {
	Items    []T
	Total    int64
	Page     int
	PageSize int
}

// TotalPages 总页数
func (p *Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
}
