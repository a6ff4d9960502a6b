package cache

import (
	"context"
	"errors"

	"github.com/sergen67/4CodeApps/internal/catalog/domain"
)

// ProductCache caches the full product list, which every register polls.
type ProductCache interface {
	Get(ctx context.Context) ([]*domain.Product, error)
	Set(ctx context.Context, products []*domain.Product) error
	Delete(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
