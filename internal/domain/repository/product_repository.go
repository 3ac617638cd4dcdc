// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"infoprod-ai-api/internal/domain/entity"
)

// ProductRepository 产品仓储接口
// 所有读写都按 userID 限定范围，未找到（或不属于该用户）返回 nil, nil。
type ProductRepository interface {
	// Create 创建产品
	Create(ctx context.Context, product *entity.Product) error

	// GetByID 获取用户的产品
	GetByID(ctx context.Context, userID, id string) (*entity.Product, error)

	// Update 更新产品
	Update(ctx context.Context, product *entity.Product) error

	// Delete 删除产品，返回是否有记录被删除
	Delete(ctx context.Context, userID, id string) (bool, error)

	// ListByUser 分页获取用户产品，按创建时间倒序
	ListByUser(ctx context.Context, userID string, q ProductQuery) (*Page[*entity.Product], error)

	// CountByUser 统计用户产品数
	CountByUser(ctx context.Context, userID string) (int64, error)

	// TopNiches 按产品数统计用户最常用的细分市场
	TopNiches(ctx context.Context, userID string, limit int) ([]NicheCount, error)
}

// NicheCount 细分市场计数
type NicheCount struct {
	Niche string `json:"niche"`
	Count int64  `json:"count"`
}
