package dashboard_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"infoprod-ai-api/internal/application/dashboard"
	"infoprod-ai-api/internal/domain/entity"
	"infoprod-ai-api/internal/domain/repository"
)

type mockProductRepo struct {
	repository.ProductRepository

	countFn     func(ctx context.Context, userID string) (int64, error)
	topNichesFn func(ctx context.Context, userID string, limit int) ([]repository.NicheCount, error)
}

func (m *mockProductRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	return m.countFn(ctx, userID)
}

func (m *mockProductRepo) TopNiches(ctx context.Context, userID string, limit int) ([]repository.NicheCount, error) {
	return m.topNichesFn(ctx, userID, limit)
}

type mockEbookRepo struct {
	repository.EbookRepository

	listFn func(ctx context.Context, userID string) ([]*entity.Ebook, error)
}

func (m *mockEbookRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Ebook, error) {
	return m.listFn(ctx, userID)
}

var _ = Describe("Stats", func() {
	var (
		products *mockProductRepo
		ebooks   *mockEbookRepo
		svc      *dashboard.Service
	)

	BeforeEach(func() {
		products = &mockProductRepo{
			countFn: func(context.Context, string) (int64, error) { return 4, nil },
			topNichesFn: func(context.Context, string, int) ([]repository.NicheCount, error) {
				return nil, nil
			},
		}
		ebooks = &mockEbookRepo{listFn: func(context.Context, string) ([]*entity.Ebook, error) {
			return []*entity.Ebook{
				{Status: entity.EbookStatusCompleted, Chapters: []entity.Chapter{
					{Status: entity.ChapterStatusCompleted, Content: "um dois três"},
				}},
				{Status: entity.EbookStatusError, Chapters: []entity.Chapter{
					{Status: entity.ChapterStatusCompleted, Content: "quatro cinco"},
					{Status: entity.ChapterStatusError},
				}},
			}, nil
		}}
		svc = dashboard.NewService(products, ebooks)
	})

	It("should aggregate products, completed ebooks and words", func() {
		stats, err := svc.Stats(context.Background(), "user-1")
		Expect(err).NotTo(HaveOccurred())

		Expect(stats.TotalProducts).To(Equal(int64(4)))
		Expect(stats.EbooksGenerated).To(Equal(1))
		Expect(stats.WordsGenerated).To(Equal(5))
		Expect(stats.PopularNiches).NotTo(BeNil())
		Expect(stats.PopularNiches).To(BeEmpty())
	})

	It("should fail when any query fails", func() {
		products.countFn = func(context.Context, string) (int64, error) {
			return 0, errors.New("db down")
		}

		_, err := svc.Stats(context.Background(), "user-1")
		Expect(err).To(MatchError("db down"))
	})
})
