// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"infoprod-ai-api/internal/domain/entity"
	"infoprod-ai-api/internal/domain/repository"
	apperrors "infoprod-ai-api/pkg/errors"
)

// EbookRepository 电子书仓储实现
type EbookRepository struct {
	client *Client
}

// NewEbookRepository 创建电子书仓储
func NewEbookRepository(client *Client) *EbookRepository {
	return &EbookRepository{client: client}
}

// Create 创建电子书；同一产品重复创建返回 CONFLICT
func (r *EbookRepository) Create(ctx context.Context, ebook *entity.Ebook) error {
	ctx, span := tracer.Start(ctx, "postgres.EbookRepository.Create")
	defer span.End()

	db, err := getDB(ctx, r.client)
	if err != nil {
		return err
	}
	if err := db.Create(ebook).Error; err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrConflict.WithDetail("ebook already exists for product")
		}
		return apperrors.NewPersistenceError("create ebook", err)
	}
	return nil
}

// GetByID 获取用户的电子书
func (r *EbookRepository) GetByID(ctx context.Context, userID, id string) (*entity.Ebook, error) {
	ctx, span := tracer.Start(ctx, "postgres.EbookRepository.GetByID")
	defer span.End()

	return r.first(ctx, "get ebook", "id = ? AND user_id = ?", id, userID)
}

// GetByProductID 获取产品对应的电子书
func (r *EbookRepository) GetByProductID(ctx context.Context, userID, productID string) (*entity.Ebook, error) {
	ctx, span := tracer.Start(ctx, "postgres.EbookRepository.GetByProductID")
	defer span.End()

	return r.first(ctx, "get ebook by product", "product_id = ? AND user_id = ?", productID, userID)
}

// ListByUser 获取用户全部电子书
func (r *EbookRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Ebook, error) {
	ctx, span := tracer.Start(ctx, "postgres.EbookRepository.ListByUser")
	defer span.End()

	db, err := getDB(ctx, r.client)
	if err != nil {
		return nil, err
	}
	var ebooks []*entity.Ebook
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&ebooks).Error; err != nil {
		span.RecordError(err)
		return nil, apperrors.NewPersistenceError("list ebooks", err)
	}
	return ebooks, nil
}

// Mutate 在事务内 SELECT ... FOR UPDATE 读取电子书，应用修改后写回。
// fn 返回的错误原样返回，事务回滚。
func (r *EbookRepository) Mutate(ctx context.Context, userID, id string, fn repository.EbookMutation) (*entity.Ebook, error) {
	ctx, span := tracer.Start(ctx, "postgres.EbookRepository.Mutate")
	defer span.End()

	db, err := getDB(ctx, r.client)
	if err != nil {
		return nil, err
	}

	var (
		ebook entity.Ebook
		found = true
	)
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ebook, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				found = false
				return nil
			}
			return apperrors.NewPersistenceError("lock ebook", err)
		}
		if err := fn(&ebook); err != nil {
			return err
		}
		if err := tx.Model(&ebook).Select("chapters", "status", "progress", "updated_at").Updates(&ebook).Error; err != nil {
			return apperrors.NewPersistenceError("update ebook", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &ebook, nil
}

// DeleteByProductID 删除产品对应的电子书
func (r *EbookRepository) DeleteByProductID(ctx context.Context, userID, productID string) error {
	ctx, span := tracer.Start(ctx, "postgres.EbookRepository.DeleteByProductID")
	defer span.End()

	db, err := getDB(ctx, r.client)
	if err != nil {
		return err
	}
	if err := db.Delete(&entity.Ebook{}, "product_id = ? AND user_id = ?", productID, userID).Error; err != nil {
		span.RecordError(err)
		return apperrors.NewPersistenceError("delete ebook", err)
	}
	return nil
}

func (r *EbookRepository) first(ctx context.Context, op, query string, args ...any) (*entity.Ebook, error) {
	db, err := getDB(ctx, r.client)
	if err != nil {
		return nil, err
	}
	var ebook entity.Ebook
	if err := db.Where(query, args...).First(&ebook).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.NewPersistenceError(op, err)
	}
	return &ebook, nil
}
