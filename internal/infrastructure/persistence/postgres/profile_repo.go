// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"infoprod-ai-api/internal/domain/entity"
	apperrors "infoprod-ai-api/pkg/errors"
)

// ProfileRepository 用户资料仓储实现
type ProfileRepository struct {
	client *Client
}

// NewProfileRepository 创建用户资料仓储
func NewProfileRepository(client *Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

// Create 创建用户资料，邮箱重复返回 CONFLICT
func (r *ProfileRepository) Create(ctx context.Context, profile *entity.UserProfile) error {
	ctx, span := tracer.Start(ctx, "postgres.ProfileRepository.Create")
	defer span.End()

	db, err := getDB(ctx, r.client)
	if err != nil {
		return err
	}
	if err := db.Create(profile).Error; err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrConflict.WithDetail("email already registered")
		}
		return apperrors.NewPersistenceError("create profile", err)
	}
	return nil
}

// GetByID 根据 ID 获取用户资料
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProfileRepository.GetByID")
	defer span.End()

	return r.first(ctx, "get profile", "id = ?", id)
}

// GetByEmail 根据邮箱获取用户资料
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*entity.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProfileRepository.GetByEmail")
	defer span.End()

	return r.first(ctx, "get profile by email", "email = ?", entity.NormalizeEmail(email))
}

// ExistsByEmail 检查邮箱是否已注册
func (r *ProfileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProfileRepository.ExistsByEmail")
	defer span.End()

	db, err := getDB(ctx, r.client)
	if err != nil {
		return false, err
	}
	var count int64
	if err := db.Model(&entity.UserProfile{}).Where("email = ?", entity.NormalizeEmail(email)).Count(&count).Error; err != nil {
		span.RecordError(err)
		return false, apperrors.NewPersistenceError("check email", err)
	}
	return count > 0, nil
}

func (r *ProfileRepository) first(ctx context.Context, op, query string, args ...any) (*entity.UserProfile, error) {
	db, err := getDB(ctx, r.client)
	if err != nil {
		return nil, err
	}
	var profile entity.UserProfile
	if err := db.Where(query, args...).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.NewPersistenceError(op, err)
	}
	return &profile, nil
}
