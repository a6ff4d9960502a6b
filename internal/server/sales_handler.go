package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sergen67/4CodeApps/internal/sales/domain"
	"github.com/sergen67/4CodeApps/internal/sales/service"
)

type SalesService interface {
	RecordSale(ctx context.Context, userID int64, totalPrice float64, paymentType string) (*domain.Sale, error)
	ListSales(ctx context.Context) ([]*domain.Sale, error)
	DailyRevenue(ctx context.Context) ([]*domain.DailyTotal, error)
	WeeklyRevenue(ctx context.Context) (float64, error)
	MonthlyRevenue(ctx context.Context) (float64, error)
}

type SalesHandler struct {
	sales   SalesService
	timeout time.Duration
}

func NewSalesHandler(sales SalesService, timeout time.Duration) *SalesHandler {
	return &SalesHandler{sales: sales, timeout: timeout}
}

type SaleRequestDTO struct {
	UserID      int64   `json:"userId"`
	TotalPrice  float64 `json:"totalPrice"`
	PaymentType string  `json:"paymentType"`
}

type SaleUserResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SaleResponse struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"userId"`
	User        SaleUserResponse `json:"user"`
	TotalPrice  float64          `json:"totalPrice"`
	PaymentType string           `json:"paymentType"`
	CreatedAt   time.Time        `json:"createdAt"`
}

type DailyRevenueResponse struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

type RevenueTotalResponse struct {
	Total float64 `json:"total"`
}

func (h *SalesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SaleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sale, err := h.sales.RecordSale(ctx, req.UserID, req.TotalPrice, req.PaymentType)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to record sale")
		return
	}

	respondJSON(w, http.StatusOK, toSaleResponse(sale))
}

func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sales, err := h.sales.ListSales(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list sales")
		return
	}

	out := make([]SaleResponse, len(sales))
	for i, s := range sales {
		out[i] = toSaleResponse(s)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *SalesHandler) Daily(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	totals, err := h.sales.DailyRevenue(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute daily revenue")
		return
	}

	out := make([]DailyRevenueResponse, len(totals))
	for i, t := range totals {
		out[i] = DailyRevenueResponse{Date: t.Date.Format("2006-01-02"), Total: t.Total}
	}
	respondJSON(w, http.StatusOK, out)
}

// Weekly answers a single-element list, the shape the dashboard consumes.
func (h *SalesHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	h.windowRevenue(w, r, h.sales.WeeklyRevenue)
}

func (h *SalesHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	h.windowRevenue(w, r, h.sales.MonthlyRevenue)
}

func (h *SalesHandler) windowRevenue(w http.ResponseWriter, r *http.Request, fn func(context.Context) (float64, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	total, err := fn(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute revenue")
		return
	}
	respondJSON(w, http.StatusOK, []RevenueTotalResponse{{Total: total}})
}

func toSaleResponse(s *domain.Sale) SaleResponse {
	return SaleResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		User:        SaleUserResponse{ID: s.UserID, Name: s.UserName},
		TotalPrice:  s.TotalPrice,
		PaymentType: s.PaymentType,
		CreatedAt:   s.CreatedAt,
	}
}
