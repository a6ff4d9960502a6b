package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergen67/4CodeApps/internal/sales/domain"
	r "github.com/sergen67/4CodeApps/internal/sales/repository"
)

type mockRepository struct {
	created   *domain.Sale
	err       error
	sinceArg  time.Time
	dailyArg  time.Time
	revenue   float64
}

func (m *mockRepository) CreateSale(_ context.Context, sale *domain.Sale) error {
	if m.err != nil {
		return m.err
	}
	sale.ID = 7
	sale.CreatedAt = time.Now()
	m.created = sale
	return nil
}

func (m *mockRepository) ListSales(context.Context) ([]*domain.Sale, error) { return nil, m.err }

func (m *mockRepository) DailyTotals(_ context.Context, day time.Time) ([]*domain.DailyTotal, error) {
	m.dailyArg = day
	return nil, m.err
}

func (m *mockRepository) RevenueSince(_ context.Context, since time.Time) (float64, error) {
	m.sinceArg = since
	return m.revenue, m.err
}

func (m *mockRepository) GetUnprocessedEvents(context.Context, int) ([]*r.OutboxEvent, error) {
	return nil, nil
}

func (m *mockRepository) MarkEventAsProcessed(context.Context, int64) error { return nil }

func newTestService(repo *mockRepository) *SalesService {
	svc := NewSalesService(repo, slog.Default())
	return svc
}

func TestRecordSale_Success(t *testing.T) {
	repo := &mockRepository{}
	svc := newTestService(repo)

	sale, err := svc.RecordSale(context.Background(), 42, 20, "cash")

	require.NoError(t, err)
	assert.Equal(t, int64(7), sale.ID)
	require.NotNil(t, repo.created)
	assert.Equal(t, int64(42), repo.created.UserID)
	assert.Equal(t, 20.0, repo.created.TotalPrice)
	assert.Equal(t, "cash", repo.created.PaymentType)
}

func TestRecordSale_MissingFields(t *testing.T) {
	svc := newTestService(&mockRepository{})
	ctx := context.Background()

	_, err := svc.RecordSale(ctx, 0, 20, "cash")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.RecordSale(ctx, 42, 0, "cash")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.RecordSale(ctx, 42, 20, "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestWeeklyRevenue_UsesSevenDayWindow(t *testing.T) {
	repo := &mockRepository{revenue: 140}
	svc := newTestService(repo)
	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	total, err := svc.WeeklyRevenue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 140.0, total)
	assert.Equal(t, fixed.AddDate(0, 0, -7), repo.sinceArg)
}

func TestMonthlyRevenue_UsesThirtyDayWindow(t *testing.T) {
	repo := &mockRepository{revenue: 600}
	svc := newTestService(repo)
	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	total, err := svc.MonthlyRevenue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 600.0, total)
	assert.Equal(t, fixed.AddDate(0, 0, -30), repo.sinceArg)
}

func TestDailyRevenue_UsesToday(t *testing.T) {
	repo := &mockRepository{}
	svc := newTestService(repo)
	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	_, err := svc.DailyRevenue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, fixed, repo.dailyArg)
}
