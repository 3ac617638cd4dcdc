package dto

import (
	"time"

	"infoprod-ai-api/internal/domain/entity"
)

// ChapterResponse 章节响应
type ChapterResponse struct {
	ID          string               `json:"id"`
	Titulo      string               `json:"titulo"`
	Conteudo    string               `json:"conteudo,omitempty"`
	Status      entity.ChapterStatus `json:"status"`
	Error       string               `json:"error,omitempty"`
	WordCount   int                  `json:"word_count"`
	GeneratedAt *time.Time           `json:"generated_at,omitempty"`
}

// EbookResponse 电子书响应
type EbookResponse struct {
	ID          string                       `json:"id"`
	ProductID   string                       `json:"product_id"`
	Title       string                       `json:"title"`
	Description string                       `json:"description"`
	Status      entity.EbookStatus           `json:"status"`
	Progress    int                          `json:"progress"`
	Counts      map[entity.ChapterStatus]int `json:"counts"`
	WordCount   int                          `json:"word_count"`
	Chapters    []ChapterResponse            `json:"chapters,omitempty"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
}

// ToEbookResponse 将领域实体转换为 DTO；withContent 为 false 时不返回章节正文
func ToEbookResponse(e *entity.Ebook, withContent bool) *EbookResponse {
	if e == nil {
		return nil
	}
	chapters := make([]ChapterResponse, 0, len(e.Chapters))
	for i := range e.Chapters {
		ch := &e.Chapters[i]
		item := ChapterResponse{
			ID:          ch.ID,
			Titulo:      ch.Title,
			Status:      ch.Status,
			Error:       ch.Error,
			WordCount:   ch.WordCount(),
			GeneratedAt: ch.GeneratedAt,
		}
		if withContent {
			item.Conteudo = ch.Content
		}
		chapters = append(chapters, item)
	}
	return &EbookResponse{
		ID:          e.ID,
		ProductID:   e.ProductID,
		Title:       e.Title,
		Description: e.Description,
		Status:      e.Status,
		Progress:    e.Progress,
		Counts:      e.Counts(),
		WordCount:   e.WordCount(),
		Chapters:    chapters,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ToEbookSummaries 列表场景，不含正文
func ToEbookSummaries(ebooks []*entity.Ebook) []*EbookResponse {
	out := make([]*EbookResponse, 0, len(ebooks))
	for _, e := range ebooks {
		out = append(out, ToEbookResponse(e, false))
	}
	return out
}
