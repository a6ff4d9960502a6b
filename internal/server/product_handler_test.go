package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergen67/4CodeApps/internal/catalog/domain"
	"github.com/sergen67/4CodeApps/internal/catalog/repository"
	"github.com/sergen67/4CodeApps/internal/catalog/service"
)

type catalogMock struct {
	products   []*domain.Product
	categories []*domain.Category
	err        error

	created *domain.Product
	deleted int64
}

func (m *catalogMock) ListProducts(context.Context) ([]*domain.Product, error) {
	return m.products, m.err
}

func (m *catalogMock) CreateProduct(_ context.Context, p *domain.Product) error {
	if m.err != nil {
		return m.err
	}
	p.ID = 7
	m.created = p
	return nil
}

func (m *catalogMock) UpdateProduct(_ context.Context, p *domain.Product) error {
	return m.err
}

func (m *catalogMock) DeleteProduct(_ context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = id
	return nil
}

func (m *catalogMock) ListCategories(context.Context) ([]*domain.Category, error) {
	return m.categories, m.err
}

func (m *catalogMock) CreateCategory(_ context.Context, c *domain.Category) error {
	if m.err != nil {
		return m.err
	}
	c.ID = 3
	return nil
}

func newProductRouter(mock *catalogMock) chi.Router {
	h := NewProductHandler(mock, 5*time.Second)
	r := chi.NewRouter()
	r.Get("/products", h.List)
	r.Post("/products", h.Create)
	r.Put("/products/{id}", h.Update)
	r.Delete("/products/{id}", h.Delete)
	r.Get("/categories", h.ListCategories)
	r.Post("/categories", h.CreateCategory)
	return r
}

func TestListProducts_Success(t *testing.T) {
	catID := int64(2)
	mock := &catalogMock{products: []*domain.Product{
		{ID: 1, Name: "Helva", Price: 0, CategoryID: &catID, Category: "Desserts",
			Variants: []domain.Variant{{Name: "Small", Price: 5}, {Name: "Large", Price: 8}}},
		{ID: 2, Name: "Tea", Price: 10},
	}}

	recorder := httptest.NewRecorder()
	newProductRouter(mock).ServeHTTP(recorder, httptest.NewRequest("GET", "/products", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var out []ProductResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&out))
	require.Len(t, out, 2)
	assert.Equal(t, "Helva", out[0].Name)
	assert.Len(t, out[0].Variants, 2)
	assert.Equal(t, "Small", out[0].Variants[0].Name)
	assert.Equal(t, float64(10), out[1].Price)
	assert.Empty(t, out[1].Variants)
}

func TestCreateProduct_Success(t *testing.T) {
	mock := &catalogMock{}
	body := bytes.NewBufferString(`{"name":"Tea","price":10,"imageUrl":"http://img/tea.png"}`)

	recorder := httptest.NewRecorder()
	newProductRouter(mock).ServeHTTP(recorder, httptest.NewRequest("POST", "/products", body))

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, mock.created)
	assert.Equal(t, "Tea", mock.created.Name)
	assert.Equal(t, float64(10), mock.created.Price)

	var out ProductResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&out))
	assert.Equal(t, int64(7), out.ID)
}

func TestCreateProduct_MissingName(t *testing.T) {
	mock := &catalogMock{err: service.ErrMissingName}
	body := bytes.NewBufferString(`{"price":10}`)

	recorder := httptest.NewRecorder()
	newProductRouter(mock).ServeHTTP(recorder, httptest.NewRequest("POST", "/products", body))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	mock := &catalogMock{err: repository.ErrCategoryNotFound}
	body := bytes.NewBufferString(`{"name":"Tea","price":10,"categoryId":99}`)

	recorder := httptest.NewRecorder()
	newProductRouter(mock).ServeHTTP(recorder, httptest.NewRequest("POST", "/products", body))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	mock := &catalogMock{err: repository.ErrProductNotFound}
	body := bytes.NewBufferString(`{"name":"Tea","price":12}`)

	recorder := httptest.NewRecorder()
	newProductRouter(mock).ServeHTTP(recorder, httptest.NewRequest("PUT", "/products/99", body))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestDeleteProduct_RequiresAdminRole(t *testing.T) {
	mock := &catalogMock{}

	recorder := httptest.NewRecorder()
	newProductRouter(mock).ServeHTTP(recorder, httptest.NewRequest("DELETE", "/products/1", nil))
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Zero(t, mock.deleted)

	recorder = httptest.NewRecorder()
	newProductRouter(mock).ServeHTTP(recorder, httptest.NewRequest("DELETE", "/products/1?role=employee", nil))
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Zero(t, mock.deleted)

	recorder = httptest.NewRecorder()
	newProductRouter(mock).ServeHTTP(recorder, httptest.NewRequest("DELETE", "/products/1?role=admin", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, int64(1), mock.deleted)
}

func TestListProducts_ServiceError(t *testing.T) {
	mock := &catalogMock{err: errors.New("db down")}

	recorder := httptest.NewRecorder()
	newProductRouter(mock).ServeHTTP(recorder, httptest.NewRequest("GET", "/products", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)

	var out ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&out))
	assert.NotEmpty(t, out.Error)
}

func TestCreateCategory_Success(t *testing.T) {
	mock := &catalogMock{}
	body := bytes.NewBufferString(`{"name":"Drinks"}`)

	recorder := httptest.NewRecorder()
	newProductRouter(mock).ServeHTTP(recorder, httptest.NewRequest("POST", "/categories", body))

	require.Equal(t, http.StatusOK, recorder.Code)

	var out CategoryResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&out))
	assert.Equal(t, int64(3), out.ID)
	assert.Equal(t, "Drinks", out.Name)
}
