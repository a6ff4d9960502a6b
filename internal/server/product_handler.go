package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sergen67/4CodeApps/internal/catalog/domain"
	"github.com/sergen67/4CodeApps/internal/catalog/repository"
	"github.com/sergen67/4CodeApps/internal/catalog/service"
	usersdomain "github.com/sergen67/4CodeApps/internal/users/domain"
)

// CatalogService is the slice of the catalog the HTTP layer uses.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
}

type ProductHandler struct {
	catalog CatalogService
	timeout time.Duration
}

func NewProductHandler(catalog CatalogService, timeout time.Duration) *ProductHandler {
	return &ProductHandler{catalog: catalog, timeout: timeout}
}

type ProductResponse struct {
	ID         int64            `json:"id"`
	Name       string           `json:"name"`
	Price      float64          `json:"price"`
	ImageURL   string           `json:"imageUrl,omitempty"`
	CategoryID *int64           `json:"categoryId"`
	Category   string           `json:"category,omitempty"`
	Variants   []domain.Variant `json:"variants"`
	CreatedAt  time.Time        `json:"createdAt"`
}

type ProductRequestDTO struct {
	Name       string           `json:"name"`
	Price      *float64         `json:"price"`
	ImageURL   string           `json:"imageUrl"`
	CategoryID *int64           `json:"categoryId"`
	Variants   []domain.Variant `json:"variants"`
}

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CategoryRequestDTO struct {
	Name string `json:"name"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	variants := p.Variants
	if variants == nil {
		variants = []domain.Variant{}
	}
	return ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		ImageURL:   p.ImageURL,
		CategoryID: p.CategoryID,
		Category:   p.Category,
		Variants:   variants,
		CreatedAt:  p.CreatedAt,
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p := productFromRequest(&req)
	if err := h.catalog.CreateProduct(ctx, p); err != nil {
		h.respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p := productFromRequest(&req)
	p.ID = id
	if err := h.catalog.UpdateProduct(ctx, p); err != nil {
		h.respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(p))
}

// Delete trusts the role stated in the query string. There is no real
// authentication behind it.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if r.URL.Query().Get("role") != usersdomain.RoleAdmin {
		respondError(w, http.StatusForbidden, "admin role required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.catalog.DeleteProduct(ctx, id); err != nil {
		h.respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	out := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = CategoryResponse{ID: c.ID, Name: c.Name}
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *ProductHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CategoryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c := &domain.Category{Name: req.Name}
	if err := h.catalog.CreateCategory(ctx, c); err != nil {
		h.respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, CategoryResponse{ID: c.ID, Name: c.Name})
}

func productFromRequest(req *ProductRequestDTO) *domain.Product {
	// Missing price means zero: variant-only products carry their prices on
	// the variants.
	var price float64
	if req.Price != nil {
		price = *req.Price
	}
	variants := req.Variants
	if variants == nil {
		variants = []domain.Variant{}
	}
	return &domain.Product{
		Name:       req.Name,
		Price:      price,
		ImageURL:   req.ImageURL,
		CategoryID: req.CategoryID,
		Variants:   variants,
	}
}

func (h *ProductHandler) respondCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingName):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrCategoryNotFound):
		respondError(w, http.StatusBadRequest, "category does not exist")
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
