package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"infoprod-ai-api/internal/domain/entity"
	"infoprod-ai-api/internal/domain/repository"
	"infoprod-ai-api/internal/interfaces/http/dto"
	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/logger"
)

// ProductEbooks 产品处理器需要的电子书能力
type ProductEbooks interface {
	CreateForProduct(ctx context.Context, product *entity.Product) (*entity.Ebook, error)
	DeleteForProduct(ctx context.Context, userID, productID string) error
}

// ProductHandler 产品处理器
type ProductHandler struct {
	products repository.ProductRepository
	ebooks   ProductEbooks
	txMgr    repository.Transactor
}

// NewProductHandler 创建产品处理器
func NewProductHandler(products repository.ProductRepository, ebooks ProductEbooks, txMgr repository.Transactor) *ProductHandler {
	return &ProductHandler{
		products: products,
		ebooks:   ebooks,
		txMgr:    txMgr,
	}
}

// ListProducts 获取产品列表
// @Summary 获取产品列表
// @Description 获取当前用户的产品，按创建时间倒序
// @Tags Products
// @Produce json
// @Param niche query string false "细分市场"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[[]dto.ProductResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var q repository.ProductQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, apperrors.ErrInvalidParam.WithDetail(err.Error()))
		return
	}

	page, err := h.products.ListByUser(c.Request.Context(), currentUserID(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessWithPage(c, dto.ToProductResponses(page.Items), dto.PageMetaOf(page))
}

// CreateProduct 直接创建产品
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product := entity.NewProduct(currentUserID(c), strings.TrimSpace(req.Title), strings.TrimSpace(req.Description), strings.TrimSpace(req.Niche), strings.TrimSpace(req.SubNiche))
	product.HasEbook = req.HasEbook
	product.TargetAudience = req.TargetAudience
	product.FeaturesBenefits = append(product.FeaturesBenefits, req.FeaturesBenefits...)
	if missing := product.MissingRequired(); len(missing) > 0 {
		respondError(c, apperrors.NewValidationError("missing required fields: "+strings.Join(missing, ", ")))
		return
	}

	if err := h.products.Create(ctx, product); err != nil {
		respondError(c, err)
		return
	}
	if product.HasEbook {
		if _, err := h.ebooks.CreateForProduct(ctx, product); err != nil {
			respondError(c, err)
			return
		}
	}

	logger.Info(ctx, "product created", "product_id", product.ID, "has_ebook", product.HasEbook)
	dto.Created(c, dto.ToProductResponse(product))
}

// GetProduct 获取产品
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.load(c)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToProductResponse(product))
}

// UpdateProduct 更新产品，has_ebook 为 true 且电子书不存在时创建电子书
// @Summary 更新产品
// @Tags Products
// @Accept json
// @Produce json
// @Param pid path string true "产品 ID"
// @Param body body dto.UpdateProductRequest true "更新字段"
// @Success 200 {object} dto.Response[dto.ProductResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/products/{pid} [patch]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.load(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Title != nil {
		product.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.HasEbook != nil {
		product.HasEbook = *req.HasEbook
	}
	if req.TargetAudience != nil {
		product.TargetAudience = *req.TargetAudience
	}
	if req.FeaturesBenefits != nil {
		product.FeaturesBenefits = req.FeaturesBenefits
	}
	if missing := product.MissingRequired(); len(missing) > 0 {
		respondError(c, apperrors.NewValidationError("missing required fields: "+strings.Join(missing, ", ")))
		return
	}

	if err := h.products.Update(ctx, product); err != nil {
		respondError(c, err)
		return
	}
	// CreateForProduct 幂等：之前创建失败的电子书在这里补齐
	if product.HasEbook {
		if _, err := h.ebooks.CreateForProduct(ctx, product); err != nil {
			respondError(c, err)
			return
		}
	}
	dto.Success(c, dto.ToProductResponse(product))
}

// DeleteProduct 删除产品及其电子书
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)
	productID := dto.BindProductID(c)

	err := h.txMgr.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := h.ebooks.DeleteForProduct(txCtx, userID, productID); err != nil {
			return err
		}
		deleted, err := h.products.Delete(txCtx, userID, productID)
		if err != nil {
			return err
		}
		if !deleted {
			return apperrors.ErrProductNotFound
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info(ctx, "product deleted", "product_id", productID)
	dto.NoContent(c)
}

func (h *ProductHandler) load(c *gin.Context) (*entity.Product, error) {
	product, err := h.products.GetByID(c.Request.Context(), currentUserID(c), dto.BindProductID(c))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.ErrProductNotFound
	}
	return product, nil
}
