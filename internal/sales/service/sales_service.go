package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sergen67/4CodeApps/internal/sales/domain"
	"github.com/sergen67/4CodeApps/internal/sales/repository"
)

// ErrMissingFields: the submission left out the user, the total or the
// payment type. Zero values count as missing.
var ErrMissingFields = errors.New("userId, totalPrice and paymentType are required")

type SalesService struct {
	repo repository.SaleRepository
	log  *slog.Logger
	now  func() time.Time
}

func NewSalesService(repo repository.SaleRepository, log *slog.Logger) *SalesService {
	return &SalesService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

func (s *SalesService) RecordSale(ctx context.Context, userID int64, totalPrice float64, paymentType string) (*domain.Sale, error) {
	if userID == 0 || totalPrice == 0 || paymentType == "" {
		return nil, ErrMissingFields
	}

	sale := &domain.Sale{
		UserID:      userID,
		TotalPrice:  totalPrice,
		PaymentType: paymentType,
	}
	if err := s.repo.CreateSale(ctx, sale); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "sale recorded",
		"sale_id", sale.ID, "user_id", userID, "total", totalPrice, "payment_type", paymentType)
	return sale, nil
}

func (s *SalesService) ListSales(ctx context.Context) ([]*domain.Sale, error) {
	return s.repo.ListSales(ctx)
}

// DailyRevenue reports today's sales grouped by calendar date (at most one
// row, kept as a list to match the report shape).
func (s *SalesService) DailyRevenue(ctx context.Context) ([]*domain.DailyTotal, error) {
	return s.repo.DailyTotals(ctx, s.now())
}

func (s *SalesService) WeeklyRevenue(ctx context.Context) (float64, error) {
	return s.repo.RevenueSince(ctx, s.now().AddDate(0, 0, -7))
}

func (s *SalesService) MonthlyRevenue(ctx context.Context) (float64, error) {
	return s.repo.RevenueSince(ctx, s.now().AddDate(0, 0, -30))
}
