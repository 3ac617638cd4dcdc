package export

import (
	"bytes"
	"fmt"

	epub "github.com/go-shiori/go-epub"

	"infoprod-ai-api/internal/domain/entity"
	apperrors "infoprod-ai-api/pkg/errors"
)

// DefaultLanguage EPUB 语言
const DefaultLanguage = "pt-BR"

// BuildEPUB 每个已完成章节生成一个 section，作者为用户名
func (r *Renderer) BuildEPUB(ebook *entity.Ebook, author string) ([]byte, error) {
	completed := 0
	for i := range ebook.Chapters {
		if ebook.Chapters[i].Status == entity.ChapterStatusCompleted {
			completed++
		}
	}
	if completed == 0 {
		return nil, apperrors.ErrInvalidState.WithDetail("ebook has no completed chapters")
	}

	e, err := epub.NewEpub(ebook.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to create epub: %w", err)
	}
	if author != "" {
		e.SetAuthor(author)
	}
	e.SetLang(DefaultLanguage)
	if ebook.Description != "" {
		e.SetDescription(ebook.Description)
	}

	for i := range ebook.Chapters {
		ch := &ebook.Chapters[i]
		if ch.Status != entity.ChapterStatusCompleted {
			continue
		}
		// 章节 ID 来自配置，不进入归档路径
		filename := fmt.Sprintf("chapter-%02d.xhtml", i+1)
		if _, err := e.AddSection(r.RenderChapter(ch), ch.Title, filename, ""); err != nil {
			return nil, fmt.Errorf("failed to add section %s: %w", ch.ID, err)
		}
	}

	var buf bytes.Buffer
	if _, err := e.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write epub: %w", err)
	}
	return buf.Bytes(), nil
}
