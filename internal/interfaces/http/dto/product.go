package dto

import (
	"time"

	"infoprod-ai-api/internal/domain/entity"
)

// CreateProductRequest 直接创建产品请求
type CreateProductRequest struct {
	Title            string   `json:"title" binding:"required,max=255"`
	Description      string   `json:"description" binding:"required"`
	Niche            string   `json:"niche" binding:"required,max=100"`
	SubNiche         string   `json:"subniche" binding:"required,max=255"`
	HasEbook         bool     `json:"has_ebook"`
	TargetAudience   string   `json:"target_audience"`
	FeaturesBenefits []string `json:"features_benefits"`
}

// UpdateProductRequest 更新产品请求，niche 与 subniche 不可修改
type UpdateProductRequest struct {
	Title            *string  `json:"title" binding:"omitempty,max=255"`
	Description      *string  `json:"description"`
	HasEbook         *bool    `json:"has_ebook"`
	TargetAudience   *string  `json:"target_audience"`
	FeaturesBenefits []string `json:"features_benefits"`
}

// ProductResponse 产品响应
type ProductResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Niche            string    `json:"niche"`
	NicheLabel       string    `json:"niche_label"`
	SubNiche         string    `json:"subniche"`
	HasEbook         bool      `json:"has_ebook"`
	TargetAudience   string    `json:"target_audience,omitempty"`
	FeaturesBenefits []string  `json:"features_benefits"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToProductResponse 将领域实体转换为 DTO
func ToProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	features := []string(p.FeaturesBenefits)
	if features == nil {
		features = []string{}
	}
	return &ProductResponse{
		ID:               p.ID,
		Title:            p.Title,
		Description:      p.Description,
		Niche:            p.Niche,
		NicheLabel:       entity.SelectNiche(p.Niche).Label,
		SubNiche:         p.SubNiche,
		HasEbook:         p.HasEbook,
		TargetAudience:   p.TargetAudience,
		FeaturesBenefits: features,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ToProductResponses 批量转换
func ToProductResponses(products []*entity.Product) []*ProductResponse {
	out := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductResponse(p))
	}
	return out
}
