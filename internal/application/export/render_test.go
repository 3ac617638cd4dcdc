package export_test

import (
	"archive/zip"
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"infoprod-ai-api/internal/application/export"
	"infoprod-ai-api/internal/domain/entity"
	apperrors "infoprod-ai-api/pkg/errors"
)

func sampleEbook() *entity.Ebook {
	return &entity.Ebook{
		ID:          "ebook-1",
		Title:       "Guia <Completo>",
		Description: "Aprenda a investir",
		Chapters: []entity.Chapter{
			{ID: "intro", Title: "Introdução", Status: entity.ChapterStatusCompleted, Content: "# Bem-vindo\n\nTexto **importante**."},
			{ID: "cap1", Title: "Capítulo 1", Status: entity.ChapterStatusError},
			{ID: "concl", Title: "Conclusão", Status: entity.ChapterStatusCompleted, Content: "- item 1\n- item 2"},
		},
	}
}

var _ = Describe("Renderer", func() {
	var r *export.Renderer

	BeforeEach(func() {
		r = export.NewRenderer()
	})

	Describe("RenderMarkdown", func() {
		It("should render headings, emphasis and lists", func() {
			out := r.RenderMarkdown("# Título\n\nTexto **forte**.\n\n- a\n- b")
			Expect(out).To(ContainSubstring("<h1"))
			Expect(out).To(ContainSubstring("<strong>forte</strong>"))
			Expect(out).To(ContainSubstring("<li>a</li>"))
		})

		It("should strip scripts and event handlers", func() {
			out := r.RenderMarkdown("Olá <script>alert(1)</script> <img src=x onerror=alert(1)>")
			Expect(out).NotTo(ContainSubstring("<script"))
			Expect(out).NotTo(ContainSubstring("onerror"))
		})

		It("should return nothing for blank input", func() {
			Expect(r.RenderMarkdown("  \n")).To(BeEmpty())
		})
	})

	Describe("RenderEbook", func() {
		It("should include only completed chapters and escape the title", func() {
			out := r.RenderEbook(sampleEbook())

			Expect(out).To(ContainSubstring("<title>Guia &lt;Completo&gt;</title>"))
			Expect(out).To(ContainSubstring(`<section id="intro">`))
			Expect(out).To(ContainSubstring(`<section id="concl">`))
			Expect(out).NotTo(ContainSubstring(`<section id="cap1">`))
		})
	})

	Describe("BuildEPUB", func() {
		It("should package one section per completed chapter", func() {
			data, err := r.BuildEPUB(sampleEbook(), "Ana")
			Expect(err).NotTo(HaveOccurred())

			zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
			Expect(err).NotTo(HaveOccurred())

			var names []string
			for _, f := range zr.File {
				names = append(names, f.Name)
			}
			Expect(names).To(ContainElement("mimetype"))
			Expect(names).To(ContainElement(HaveSuffix("chapter-01.xhtml")))
			Expect(names).To(ContainElement(HaveSuffix("chapter-03.xhtml")))
			Expect(names).NotTo(ContainElement(HaveSuffix("chapter-02.xhtml")))
		})

		It("should keep chapter ids out of archive paths", func() {
			e := sampleEbook()
			e.Chapters[0].ID = "parte 1/intro"

			data, err := r.BuildEPUB(e, "Ana")
			Expect(err).NotTo(HaveOccurred())

			zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
			Expect(err).NotTo(HaveOccurred())
			for _, f := range zr.File {
				Expect(f.Name).NotTo(ContainSubstring("parte 1"))
				Expect(f.Name).NotTo(ContainSubstring(" "))
			}
			Expect(zr.File).To(ContainElement(WithTransform(func(f *zip.File) string { return f.Name }, HaveSuffix("chapter-01.xhtml"))))
		})

		It("should refuse an ebook without completed chapters", func() {
			e := sampleEbook()
			for i := range e.Chapters {
				e.Chapters[i].Status = entity.ChapterStatusPending
			}

			_, err := r.BuildEPUB(e, "Ana")
			Expect(errors.Is(err, apperrors.ErrInvalidState)).To(BeTrue())
		})
	})
})
