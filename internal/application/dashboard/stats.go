// Package dashboard 汇总用户的创作统计
package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"infoprod-ai-api/internal/domain/entity"
	"infoprod-ai-api/internal/domain/repository"
)

// PopularNicheLimit 热门细分市场数量
const PopularNicheLimit = 5

// Stats 用户统计
type Stats struct {
	TotalProducts   int64                   `json:"total_products"`
	EbooksGenerated int                     `json:"ebooks_generated"`
	WordsGenerated  int                     `json:"words_generated"`
	PopularNiches   []repository.NicheCount `json:"popular_niches"`
}

// Service 统计服务
type Service struct {
	products repository.ProductRepository
	ebooks   repository.EbookRepository
}

func NewService(products repository.ProductRepository, ebooks repository.EbookRepository) *Service {
	return &Service{products: products, ebooks: ebooks}
}

// Stats 并发读取产品数、热门细分市场和电子书
func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	var (
		out    Stats
		ebooks []*entity.Ebook
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.products.CountByUser(gctx, userID)
		out.TotalProducts = n
		return err
	})
	g.Go(func() error {
		top, err := s.products.TopNiches(gctx, userID, PopularNicheLimit)
		out.PopularNiches = top
		return err
	})
	g.Go(func() error {
		list, err := s.ebooks.ListByUser(gctx, userID)
		ebooks = list
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, e := range ebooks {
		if e.Status == entity.EbookStatusCompleted {
			out.EbooksGenerated++
		}
		out.WordsGenerated += e.WordCount()
	}
	if out.PopularNiches == nil {
		out.PopularNiches = []repository.NicheCount{}
	}
	return &out, nil
}
