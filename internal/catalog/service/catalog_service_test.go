package service

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergen67/4CodeApps/internal/catalog/cache"
	"github.com/sergen67/4CodeApps/internal/catalog/domain"
)

type mockRepository struct {
	mu        sync.Mutex
	products  []*domain.Product
	listCalls int
	created   *domain.Product
	err       error
}

func (m *mockRepository) ListProducts(context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *mockRepository) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, m.err
}

func (m *mockRepository) CreateProduct(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	p.ID = int64(len(m.products) + 1)
	m.created = p
	m.products = append(m.products, p)
	return nil
}

func (m *mockRepository) UpdateProduct(_ context.Context, _ *domain.Product) error { return m.err }
func (m *mockRepository) DeleteProduct(_ context.Context, _ int64) error           { return m.err }

func (m *mockRepository) ListCategories(context.Context) ([]*domain.Category, error) {
	return nil, m.err
}

func (m *mockRepository) CreateCategory(_ context.Context, _ *domain.Category) error { return m.err }

type mockCache struct {
	mu       sync.Mutex
	products []*domain.Product
	deletes  int
}

func (m *mockCache) Get(context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.products == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.products, nil
}

func (m *mockCache) Set(_ context.Context, products []*domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = products
	return nil
}

func (m *mockCache) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = nil
	m.deletes++
	return nil
}

func (m *mockCache) deleteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deletes
}

func (m *mockCache) cached() []*domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products
}

func newTestService(repo *mockRepository, c *mockCache) *CatalogService {
	return NewCatalogService(repo, c, slog.Default())
}

func TestListProducts_CacheMissFallsThroughAndPopulates(t *testing.T) {
	repo := &mockRepository{products: []*domain.Product{{ID: 1, Name: "Tea", Price: 10}}}
	c := &mockCache{}
	svc := newTestService(repo, c)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1, repo.listCalls)

	// the cache is filled asynchronously
	assert.Eventually(t, func() bool { return c.cached() != nil }, time.Second, 5*time.Millisecond)
}

func TestListProducts_CacheHitSkipsRepository(t *testing.T) {
	repo := &mockRepository{}
	c := &mockCache{products: []*domain.Product{{ID: 1, Name: "Tea", Price: 10}}}
	svc := newTestService(repo, c)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 0, repo.listCalls)
}

func TestCreateProduct_RequiresName(t *testing.T) {
	svc := newTestService(&mockRepository{}, &mockCache{})

	err := svc.CreateProduct(context.Background(), &domain.Product{Price: 10})
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestCreateProduct_InvalidatesCache(t *testing.T) {
	repo := &mockRepository{}
	c := &mockCache{products: []*domain.Product{}}
	svc := newTestService(repo, c)

	err := svc.CreateProduct(context.Background(), &domain.Product{Name: "Tea", Price: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, c.deleteCount())
	assert.NotNil(t, repo.created)
	assert.NotZero(t, repo.created.ID)
}

func TestDeleteProduct_InvalidatesCache(t *testing.T) {
	c := &mockCache{products: []*domain.Product{}}
	svc := newTestService(&mockRepository{}, c)

	require.NoError(t, svc.DeleteProduct(context.Background(), 1))
	assert.Equal(t, 1, c.deleteCount())
}

func TestCreateCategory_RequiresName(t *testing.T) {
	svc := newTestService(&mockRepository{}, &mockCache{})

	err := svc.CreateCategory(context.Background(), &domain.Category{})
	assert.ErrorIs(t, err, ErrMissingName)
}
