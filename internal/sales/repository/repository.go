package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sergen67/4CodeApps/internal/sales/domain"
)

var ErrSaleNotFound = errors.New("sale not found")

// OutboxEvent is one pending row of the sales outbox, written in the same
// transaction as the sale and published to the broker by the poller.
type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

type SaleRepository interface {
	// CreateSale records the sale and its outbox event atomically, filling
	// in the sale's id and creation time.
	CreateSale(ctx context.Context, sale *domain.Sale) error
	ListSales(ctx context.Context) ([]*domain.Sale, error)

	DailyTotals(ctx context.Context, day time.Time) ([]*domain.DailyTotal, error)
	RevenueSince(ctx context.Context, since time.Time) (float64, error)

	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error
}
