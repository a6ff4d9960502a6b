package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the REST surface: products, categories, sales, users.
// Routes sit at the root, matching what the clients call.
func NewRouter(products *ProductHandler, sales *SalesHandler, users *UserHandler, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", products.List)
		r.Post("/", products.Create)
		r.Put("/{id}", products.Update)
		r.Delete("/{id}", products.Delete)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", products.ListCategories)
		r.Post("/", products.CreateCategory)
	})

	r.Route("/sales", func(r chi.Router) {
		r.Get("/", sales.List)
		r.Post("/", sales.Create)
		r.Get("/daily", sales.Daily)
		r.Get("/weekly", sales.Weekly)
		r.Get("/monthly", sales.Monthly)
	})

	r.Post("/register", users.Register)
	r.Post("/login", users.Login)
	r.Get("/users", users.List)

	return r
}
