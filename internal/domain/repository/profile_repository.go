// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"infoprod-ai-api/internal/domain/entity"
)

// ProfileRepository 用户资料仓储接口
type ProfileRepository interface {
	// Create 创建用户资料
	Create(ctx context.Context, profile *entity.UserProfile) error

	// GetByID 根据 ID 获取用户资料
	GetByID(ctx context.Context, id string) (*entity.UserProfile, error)

	// GetByEmail 根据邮箱获取用户资料
	GetByEmail(ctx context.Context, email string) (*entity.UserProfile, error)

	// ExistsByEmail 检查邮箱是否存在
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
