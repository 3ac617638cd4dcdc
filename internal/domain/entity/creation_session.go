package entity

import (
	"time"
)

// CreationState 创作流程状态
type CreationState string

const (
	CreationStateChoosingNiche         CreationState = "choosing_niche"
	CreationStateChoosingSubNiche      CreationState = "choosing_subniche"
	CreationStateEditingProductDetails CreationState = "editing_product_details"
	CreationStateGeneratingEbook       CreationState = "generating_ebook"
	CreationStateSaved                 CreationState = "saved"
)

// ProductDraft 用户在保存前编辑的产品草稿
type ProductDraft struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	HasEbook         bool     `json:"has_ebook"`
	TargetAudience   string   `json:"target_audience,omitempty"`
	FeaturesBenefits []string `json:"features_benefits,omitempty"`
}

// CreationSession 一次创作流程的暂存状态，只保存在缓存中
type CreationSession struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	State             CreationState   `json:"state"`
	Niche             *NicheSelection `json:"niche,omitempty"`
	SubNiches         []SubNiche      `json:"subniches,omitempty"`
	SubNichesFallback bool            `json:"subniches_fallback,omitempty"`
	SelectedSubNiche  string          `json:"selected_subniche,omitempty"`
	Details           *ProductDetails `json:"details,omitempty"`
	Draft             *ProductDraft   `json:"draft,omitempty"`
	ProductID         string          `json:"product_id,omitempty"`
	EbookID           string          `json:"ebook_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewCreationSession 创建新会话，初始状态为 choosing_niche
func NewCreationSession(id, userID string) *CreationSession {
	now := time.Now()
	return &CreationSession{
		ID:        id,
		UserID:    userID,
		State:     CreationStateChoosingNiche,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch 更新时间戳
func (s *CreationSession) Touch() {
	s.UpdatedAt = time.Now()
}

// IsOwnedBy 检查归属
func (s *CreationSession) IsOwnedBy(userID string) bool {
	return s.UserID == userID
}

// IsClosed 已保存的会话不再接受变更
func (s *CreationSession) IsClosed() bool {
	return s.State == CreationStateSaved || s.State == CreationStateGeneratingEbook
}
