package entity

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// Product 已确认保存的信息产品
type Product struct {
	ID               string         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID           string         `json:"user_id" gorm:"type:uuid;index;not null"`
	Title            string         `json:"title" gorm:"type:varchar(255);not null"`
	Description      string         `json:"description" gorm:"type:text;not null"`
	Niche            string         `json:"niche" gorm:"type:varchar(100);index;not null"`
	SubNiche         string         `json:"subniche" gorm:"column:subniche;type:varchar(255);not null"`
	HasEbook         bool           `json:"has_ebook" gorm:"default:false"`
	TargetAudience   string         `json:"target_audience,omitempty" gorm:"type:text"`
	FeaturesBenefits pq.StringArray `json:"features_benefits" gorm:"type:text[]"`
	CreatedAt        time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// NewProduct 创建产品
func NewProduct(userID, title, description, niche, subNiche string) *Product {
	now := time.Now()
	return &Product{
		UserID:           userID,
		Title:            title,
		Description:      description,
		Niche:            niche,
		SubNiche:         subNiche,
		FeaturesBenefits: pq.StringArray{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// MissingRequired 返回为空的必填字段名
func (p *Product) MissingRequired() []string {
	var missing []string
	if strings.TrimSpace(p.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(p.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(p.Niche) == "" {
		missing = append(missing, "niche")
	}
	if strings.TrimSpace(p.SubNiche) == "" {
		missing = append(missing, "subniche")
	}
	return missing
}

// IsOwnedBy 检查归属
func (p *Product) IsOwnedBy(userID string) bool {
	return p.UserID == userID
}
