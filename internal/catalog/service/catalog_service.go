package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sergen67/4CodeApps/internal/catalog/cache"
	"github.com/sergen67/4CodeApps/internal/catalog/domain"
	"github.com/sergen67/4CodeApps/internal/catalog/repository"
)

var ErrMissingName = errors.New("name is required")

type CatalogService struct {
	repo  repository.CatalogRepository
	cache cache.ProductCache
	log   *slog.Logger
	sfg   singleflight.Group // prevents cache stampede on the product list
}

func NewCatalogService(repo repository.CatalogRepository, productCache cache.ProductCache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: productCache,
		log:   log,
	}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	v, err, _ := s.sfg.Do("products", func() (interface{}, error) {
		products, err := s.cache.Get(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.WarnContext(ctx, "product cache get failed", "error", err)
		}

		products, err = s.repo.ListProducts(ctx)
		if err != nil {
			return nil, err
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), products); errSet != nil {
				s.log.Warn("product cache set failed", "error", errSet)
			}
		}()

		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Product), nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.Name == "" {
		return ErrMissingName
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if p.Name == "" {
		return ErrMissingName
	}
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, c *domain.Category) error {
	if c.Name == "" {
		return ErrMissingName
	}
	return s.repo.CreateCategory(ctx, c)
}

func (s *CatalogService) invalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx); err != nil {
		s.log.Warn("product cache invalidate failed", "error", err)
	}
}
