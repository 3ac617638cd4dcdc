// Package export 将电子书章节渲染为 HTML 并导出 EPUB
package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"

	"infoprod-ai-api/internal/domain/entity"
)

// Renderer Markdown -> 安全 HTML
type Renderer struct {
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	return &Renderer{policy: bluemonday.UGCPolicy()}
}

// RenderMarkdown 渲染并清洗单段 Markdown
func (r *Renderer) RenderMarkdown(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	// parser 带状态，不能复用
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	out := markdown.ToHTML([]byte(text), p, renderer)
	return string(r.policy.SanitizeBytes(out))
}

// RenderChapter 章节标题加正文
func (r *Renderer) RenderChapter(ch *entity.Chapter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(ch.Title))
	b.WriteString(r.RenderMarkdown(ch.Content))
	return b.String()
}

// RenderEbook 整本电子书的 HTML 文档，只包含已完成的章节
func (r *Renderer) RenderEbook(ebook *entity.Ebook) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"pt-BR\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n</head>\n<body>\n", html.EscapeString(ebook.Title))
	fmt.Fprintf(&b, "<header><h1>%s</h1>", html.EscapeString(ebook.Title))
	if ebook.Description != "" {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(ebook.Description))
	}
	b.WriteString("</header>\n")

	for i := range ebook.Chapters {
		ch := &ebook.Chapters[i]
		if ch.Status != entity.ChapterStatusCompleted {
			continue
		}
		fmt.Fprintf(&b, "<section id=\"%s\">\n", html.EscapeString(ch.ID))
		b.WriteString(r.RenderChapter(ch))
		b.WriteString("\n</section>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
