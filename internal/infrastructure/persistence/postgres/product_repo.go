// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"infoprod-ai-api/internal/domain/entity"
	"infoprod-ai-api/internal/domain/repository"
	apperrors "infoprod-ai-api/pkg/errors"
)

// ProductRepository 产品仓储实现
type ProductRepository struct {
	client *Client
}

// NewProductRepository 创建产品仓储
func NewProductRepository(client *Client) *ProductRepository {
	return &ProductRepository{client: client}
}

// Create 创建产品
func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	ctx, span := tracer.Start(ctx, "postgres.ProductRepository.Create")
	defer span.End()

	db, err := getDB(ctx, r.client)
	if err != nil {
		return err
	}
	if err := db.Create(product).Error; err != nil {
		span.RecordError(err)
		return apperrors.NewPersistenceError("create product", err)
	}
	return nil
}

// GetByID 获取用户的产品
func (r *ProductRepository) GetByID(ctx context.Context, userID, id string) (*entity.Product, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProductRepository.GetByID")
	defer span.End()

	db, err := getDB(ctx, r.client)
	if err != nil {
		return nil, err
	}
	var product entity.Product
	if err := db.First(&product, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, apperrors.NewPersistenceError("get product", err)
	}
	return &product, nil
}

// Update 更新产品
func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	ctx, span := tracer.Start(ctx, "postgres.ProductRepository.Update")
	defer span.End()

	db, err := getDB(ctx, r.client)
	if err != nil {
		return err
	}
	if err := db.Model(product).
		Where("user_id = ?", product.UserID).
		Select("title", "description", "has_ebook", "target_audience", "features_benefits", "updated_at").
		Updates(product).Error; err != nil {
		span.RecordError(err)
		return apperrors.NewPersistenceError("update product", err)
	}
	return nil
}

// Delete 删除产品
func (r *ProductRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProductRepository.Delete")
	defer span.End()

	db, err := getDB(ctx, r.client)
	if err != nil {
		return false, err
	}
	result := db.Delete(&entity.Product{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		span.RecordError(result.Error)
		return false, apperrors.NewPersistenceError("delete product", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListByUser 分页获取用户产品，可按细分市场过滤
func (r *ProductRepository) ListByUser(ctx context.Context, userID string, q repository.ProductQuery) (*repository.Page[*entity.Product], error) {
	ctx, span := tracer.Start(ctx, "postgres.ProductRepository.ListByUser")
	defer span.End()

	q = q.Normalize()

	db, err := getDB(ctx, r.client)
	if err != nil {
		return nil, err
	}

	var total int64
	query := db.Model(&entity.Product{}).Where("user_id = ?", userID)
	if q.Niche != "" {
		query = query.Where("niche = ?", q.Niche)
	}
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, apperrors.NewPersistenceError("count products", err)
	}

	var products []*entity.Product
	if err := query.
		Order("created_at DESC").
		Offset(q.Offset()).
		Limit(q.PageSize).
		Find(&products).Error; err != nil {
		span.RecordError(err)
		return nil, apperrors.NewPersistenceError("list products", err)
	}

	return &repository.Page[*entity.Product]{
		Items:    products,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}

// CountByUser 统计用户产品数
func (r *ProductRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProductRepository.CountByUser")
	defer span.End()

	db, err := getDB(ctx, r.client)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := db.Model(&entity.Product{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		span.RecordError(err)
		return 0, apperrors.NewPersistenceError("count products", err)
	}
	return total, nil
}

// TopNiches 按产品数排序的细分市场
func (r *ProductRepository) TopNiches(ctx context.Context, userID string, limit int) ([]repository.NicheCount, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProductRepository.TopNiches")
	defer span.End()

	db, err := getDB(ctx, r.client)
	if err != nil {
		return nil, err
	}
	var out []repository.NicheCount
	if err := db.Model(&entity.Product{}).
		Select("niche, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("niche").
		Order("count DESC, niche ASC").
		Limit(limit).
		Scan(&out).Error; err != nil {
		span.RecordError(err)
		return nil, apperrors.NewPersistenceError("top niches", err)
	}
	return out, nil
}
