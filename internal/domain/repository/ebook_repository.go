// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"infoprod-ai-api/internal/domain/entity"
)

// EbookMutation 在行锁内对电子书做的修改
type EbookMutation func(ebook *entity.Ebook) error

// EbookRepository 电子书仓储接口
type EbookRepository interface {
	// Create 创建电子书
	Create(ctx context.Context, ebook *entity.Ebook) error

	// GetByID 获取用户的电子书
	GetByID(ctx context.Context, userID, id string) (*entity.Ebook, error)

	// GetByProductID 获取产品对应的电子书
	GetByProductID(ctx context.Context, userID, productID string) (*entity.Ebook, error)

	// ListByUser 获取用户全部电子书，按创建时间倒序
	ListByUser(ctx context.Context, userID string) ([]*entity.Ebook, error)

	// Mutate 锁定行后读取、修改并写回，返回修改后的电子书；记录不存在时返回 nil, nil
	Mutate(ctx context.Context, userID, id string, fn EbookMutation) (*entity.Ebook, error)

	// DeleteByProductID 删除产品对应的电子书
	DeleteByProductID(ctx context.Context, userID, productID string) error
}
