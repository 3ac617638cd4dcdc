package creation_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"infoprod-ai-api/internal/application/creation"
	"infoprod-ai-api/internal/config"
	"infoprod-ai-api/internal/domain/entity"
	wfmodel "infoprod-ai-api/internal/workflow/model"
	apperrors "infoprod-ai-api/pkg/errors"
)

var _ = Describe("EbookService", func() {
	var (
		ctx       context.Context
		repo      *memoryEbookRepo
		generator *mockChapterGenerator
		product   *entity.Product
		plan      []entity.PlannedChapter
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMemoryEbookRepo()
		generator = &mockChapterGenerator{}
		plan = creation.ParsePlannedChapters(config.DefaultPlannedChapters)

		product = entity.NewProduct("user-1", "Guia do Investidor", "Aprenda a investir", "financas", "Investimentos")
		product.ID = "product-1"
		product.HasEbook = true
	})

	Describe("generating a whole ebook in process", func() {
		var svc *creation.EbookService

		BeforeEach(func() {
			scheduler := creation.NewInlineScheduler(nil, 2, false)
			svc = creation.NewEbookService(repo, generator, scheduler, plan)
			scheduler.SetRunner(svc)
		})

		It("should complete every chapter", func() {
			created, err := svc.CreateForProduct(ctx, product)
			Expect(err).NotTo(HaveOccurred())

			ebook, err := svc.Get(ctx, "user-1", created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ebook.Status).To(Equal(entity.EbookStatusCompleted))
			Expect(ebook.Progress).To(Equal(100))
			for _, ch := range ebook.Chapters {
				Expect(ch.Content).To(HavePrefix("# " + ch.Title))
				Expect(ch.GeneratedAt).NotTo(BeNil())
			}
			Expect(generator.calls).To(HaveLen(5))
			Expect(generator.calls[0].EbookTitle).To(Equal("Guia do Investidor"))
		})

		It("should record failed chapters without stopping the others", func() {
			generator.generateChapterFn = func(_ context.Context, in wfmodel.ChapterInput) (string, error) {
				if in.ChapterID == "cap2" || in.ChapterID == "cap3" {
					return "", apperrors.NewProviderError(apperrors.ProviderErrorRateLimit, errors.New("429"))
				}
				return "conteúdo de " + in.ChapterID, nil
			}

			created, err := svc.CreateForProduct(ctx, product)
			Expect(err).NotTo(HaveOccurred())

			ebook, err := svc.Get(ctx, "user-1", created.ID)
			Expect(err).NotTo(HaveOccurred())

			counts := ebook.Counts()
			Expect(counts[entity.ChapterStatusCompleted]).To(Equal(3))
			Expect(counts[entity.ChapterStatusError]).To(Equal(2))
			Expect(ebook.Status).To(Equal(entity.EbookStatusError))
			Expect(ebook.Progress).To(Equal(60))

			failed := ebook.Chapter("cap2")
			Expect(failed.Content).To(BeEmpty())
			Expect(failed.Error).To(ContainSubstring("rate_limit"))
		})

		It("should regenerate every chapter of a finished ebook", func() {
			generator.generateChapterFn = func(_ context.Context, in wfmodel.ChapterInput) (string, error) {
				if in.ChapterID == "intro" {
					return "", errors.New("timeout")
				}
				return "ok", nil
			}
			created, err := svc.CreateForProduct(ctx, product)
			Expect(err).NotTo(HaveOccurred())

			generator.generateChapterFn = nil
			_, err = svc.Regenerate(ctx, "user-1", created.ID)
			Expect(err).NotTo(HaveOccurred())

			ebook, err := svc.Get(ctx, "user-1", created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ebook.Status).To(Equal(entity.EbookStatusCompleted))
			Expect(ebook.Chapters).To(HaveLen(5))
			Expect(generator.calls).To(HaveLen(10))
		})

		It("should keep one ebook per product", func() {
			first, err := svc.CreateForProduct(ctx, product)
			Expect(err).NotTo(HaveOccurred())
			second, err := svc.CreateForProduct(ctx, product)
			Expect(err).NotTo(HaveOccurred())

			Expect(second.ID).To(Equal(first.ID))
			Expect(generator.calls).To(HaveLen(5))
		})
	})

	Describe("scheduling", func() {
		It("should leave chapters pending when scheduling fails", func() {
			scheduler := &mockScheduler{scheduleFn: func(context.Context, []entity.ChapterJob) error {
				return errors.New("queue unavailable")
			}}
			svc := creation.NewEbookService(repo, generator, scheduler, plan)

			created, err := svc.CreateForProduct(ctx, product)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Status).To(Equal(entity.EbookStatusPending))
			Expect(scheduler.jobs).To(HaveLen(5))

			ebook, _ := svc.Get(ctx, "user-1", created.ID)
			Expect(ebook.PendingJobs()).To(HaveLen(5))
		})

		It("should refuse to regenerate while chapters are generating", func() {
			scheduler := &mockScheduler{}
			svc := creation.NewEbookService(repo, generator, scheduler, plan)
			created, err := svc.CreateForProduct(ctx, product)
			Expect(err).NotTo(HaveOccurred())

			_, err = repo.Mutate(ctx, "user-1", created.ID, func(e *entity.Ebook) error {
				e.StartChapter("intro")
				return nil
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Regenerate(ctx, "user-1", created.ID)
			Expect(errors.Is(err, apperrors.ErrInvalidState)).To(BeTrue())
		})
	})

	Describe("regenerating a stuck ebook", func() {
		var (
			scheduler *mockScheduler
			svc       *creation.EbookService
			ebookID   string
		)

		BeforeEach(func() {
			scheduler = &mockScheduler{}
			svc = creation.NewEbookService(repo, generator, scheduler, plan)
			svc.SetStaleAfter(10 * time.Minute)

			created, err := svc.CreateForProduct(ctx, product)
			Expect(err).NotTo(HaveOccurred())
			ebookID = created.ID
		})

		stall := func(age time.Duration) {
			_, err := repo.Mutate(ctx, "user-1", ebookID, func(e *entity.Ebook) error {
				e.CompleteChapter("cap1", "texto")
				e.StartChapter("intro")
				e.UpdatedAt = time.Now().Add(-age)
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
		}

		It("should reset every chapter once generation has stalled", func() {
			stall(time.Hour)

			ebook, err := svc.Regenerate(ctx, "user-1", ebookID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ebook.Status).To(Equal(entity.EbookStatusPending))
			Expect(ebook.PendingJobs()).To(HaveLen(5))
			Expect(scheduler.jobs).To(HaveLen(10))
		})

		It("should still refuse while generation is recent", func() {
			stall(time.Minute)

			_, err := svc.Regenerate(ctx, "user-1", ebookID)
			Expect(errors.Is(err, apperrors.ErrInvalidState)).To(BeTrue())
			Expect(scheduler.jobs).To(HaveLen(5))
		})
	})

	Describe("RunChapter", func() {
		var svc *creation.EbookService

		BeforeEach(func() {
			svc = creation.NewEbookService(repo, generator, &mockScheduler{}, plan)
		})

		It("should report unknown ebooks and chapters", func() {
			err := svc.RunChapter(ctx, entity.ChapterJob{UserID: "user-1", EbookID: "missing", ChapterID: "intro"})
			Expect(errors.Is(err, apperrors.ErrEbookNotFound)).To(BeTrue())

			created, err := svc.CreateForProduct(ctx, product)
			Expect(err).NotTo(HaveOccurred())
			err = svc.RunChapter(ctx, entity.ChapterJob{UserID: "user-1", EbookID: created.ID, ChapterID: "cap9"})
			Expect(errors.Is(err, apperrors.ErrChapterNotFound)).To(BeTrue())
		})

		It("should skip a redelivered job for a finished chapter", func() {
			created, err := svc.CreateForProduct(ctx, product)
			Expect(err).NotTo(HaveOccurred())
			for _, ch := range created.Chapters {
				job := entity.ChapterJob{UserID: "user-1", EbookID: created.ID, ChapterID: ch.ID}
				Expect(svc.RunChapter(ctx, job)).To(Succeed())
			}
			before, _ := svc.Get(ctx, "user-1", created.ID)
			Expect(before.Status).To(Equal(entity.EbookStatusCompleted))
			calls := len(generator.calls)

			generator.generateChapterFn = func(context.Context, wfmodel.ChapterInput) (string, error) {
				return "", errors.New("upstream reset")
			}
			err = svc.RunChapter(ctx, entity.ChapterJob{UserID: "user-1", EbookID: created.ID, ChapterID: "intro"})
			Expect(err).NotTo(HaveOccurred())

			after, _ := svc.Get(ctx, "user-1", created.ID)
			Expect(after.Status).To(Equal(entity.EbookStatusCompleted))
			Expect(after.Progress).To(Equal(100))
			Expect(after.Chapter("intro").Content).To(Equal(before.Chapter("intro").Content))
			Expect(generator.calls).To(HaveLen(calls))
		})

		It("should not let other users touch the ebook", func() {
			created, err := svc.CreateForProduct(ctx, product)
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Get(ctx, "user-2", created.ID)
			Expect(errors.Is(err, apperrors.ErrEbookNotFound)).To(BeTrue())
		})

		It("should delete the ebook with its product", func() {
			_, err := svc.CreateForProduct(ctx, product)
			Expect(err).NotTo(HaveOccurred())

			Expect(svc.DeleteForProduct(ctx, "user-1", "product-1")).To(Succeed())
			list, err := svc.List(ctx, "user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())
		})
	})
})
