package dto

import (
	"infoprod-ai-api/internal/domain/entity"
)

// RequestSubNichesBody 会话内请求子细分
type RequestSubNichesBody struct {
	nicheField
}

// SelectSubNicheRequest 选择子细分
type SelectSubNicheRequest struct {
	SubNicho string `json:"subnicho" binding:"required"`
}

// EditDraftRequest 编辑草稿，只更新非空字段
type EditDraftRequest struct {
	Title            *string  `json:"title"`
	Description      *string  `json:"description"`
	HasEbook         *bool    `json:"has_ebook"`
	TargetAudience   *string  `json:"target_audience"`
	FeaturesBenefits []string `json:"features_benefits"`
}

// SaveCreationResponse 保存结果
type SaveCreationResponse struct {
	Session *entity.CreationSession `json:"session"`
	Product *ProductResponse        `json:"product"`
	Ebook   *EbookResponse          `json:"ebook,omitempty"`
}

// NicheResponse 细分市场目录项
type NicheResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ToNicheResponses 转换细分市场目录
func ToNicheResponses(niches []entity.NicheSelection) []NicheResponse {
	out := make([]NicheResponse, 0, len(niches))
	for _, n := range niches {
		out = append(out, NicheResponse{ID: string(n.ID), Label: n.Label})
	}
	return out
}
