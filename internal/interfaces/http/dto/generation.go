package dto

import (
	"strings"

	"infoprod-ai-api/internal/domain/entity"
)

// nicheField 兼容 "niche" 与 "nicho" 两种字段名
type nicheField struct {
	Niche string `json:"niche"`
	Nicho string `json:"nicho"`
}

// NicheID 返回非空的细分市场标识
func (n nicheField) NicheID() string {
	if v := strings.TrimSpace(n.Niche); v != "" {
		return v
	}
	return strings.TrimSpace(n.Nicho)
}

// GenerateSubNichesRequest 子细分生成请求
type GenerateSubNichesRequest struct {
	nicheField
}

// SubNichesResponse 子细分生成响应
type SubNichesResponse struct {
	SubNichos []entity.SubNiche `json:"subnichos"`
}

// GenerateProductDetailsRequest 产品详情生成请求
type GenerateProductDetailsRequest struct {
	nicheField
	SubNicho string `json:"subnicho"`
}

// ProductDetailsResponse 产品详情生成响应
type ProductDetailsResponse struct {
	Detalhes *entity.ProductDetails `json:"detalhes"`
}

// GenerateTitleRequest 标题生成请求
type GenerateTitleRequest struct {
	nicheField
	SubNicho string `json:"subnicho"`
}

// TitleResponse 标题生成响应
type TitleResponse struct {
	Titulo string `json:"titulo"`
}

// GenerateDescriptionRequest 描述生成请求
type GenerateDescriptionRequest struct {
	nicheField
	Titulo string `json:"titulo"`
}

// DescriptionResponse 描述生成响应
type DescriptionResponse struct {
	Descricao string `json:"descricao"`
}

// ChapterRef 章节引用
type ChapterRef struct {
	ID     string `json:"id"`
	Titulo string `json:"titulo"`
}

// GenerateEbookChapterRequest 单章生成请求（不落库）
type GenerateEbookChapterRequest struct {
	ProdutoID string      `json:"produtoId"`
	Titulo    string      `json:"titulo"`
	Descricao string      `json:"descricao"`
	Capitulo  *ChapterRef `json:"capitulo"`
}

// Complete 必填字段是否齐全
func (r *GenerateEbookChapterRequest) Complete() bool {
	return strings.TrimSpace(r.ProdutoID) != "" &&
		strings.TrimSpace(r.Titulo) != "" &&
		r.Capitulo != nil &&
		strings.TrimSpace(r.Capitulo.ID) != ""
}

// ChapterContentResponse 单章生成响应
type ChapterContentResponse struct {
	Conteudo string `json:"conteudo"`
}

// ContentStreamRequest 流式内容生成请求
type ContentStreamRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}
