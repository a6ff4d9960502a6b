package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/sergen67/4CodeApps/internal/sales/domain"
)

const saleRecordedEvent = "sale.recorded"

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateSale(ctx context.Context, sale *domain.Sale) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sale tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO sales (user_id, total_price, payment_type)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, query, sale.UserID, sale.TotalPrice, sale.PaymentType).
		Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"sale_id":      sale.ID,
		"user_id":      sale.UserID,
		"total_price":  sale.TotalPrice,
		"payment_type": sale.PaymentType,
		"recorded_at":  sale.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal sale event: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sales_outbox (aggregate_id, event_type, payload) VALUES ($1, $2, $3)`,
		strconv.FormatInt(sale.ID, 10), saleRecordedEvent, payload)
	if err != nil {
		return fmt.Errorf("insert sale outbox event: %w", err)
	}

	if e2 := tx.Commit(); e2 != nil {
		return fmt.Errorf("commit sale tx: %w", e2)
	}
	return nil
}

func (r *Repository) ListSales(ctx context.Context) ([]*domain.Sale, error) {
	query := `SELECT s.id, s.user_id, u.name, s.total_price, s.payment_type, s.created_at
	          FROM sales s
	          JOIN users u ON u.id = s.user_id
	          ORDER BY s.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var sales []*domain.Sale
	for rows.Next() {
		s := &domain.Sale{}
		err := rows.Scan(&s.ID, &s.UserID, &s.UserName, &s.TotalPrice, &s.PaymentType, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}
	return sales, nil
}

func (r *Repository) DailyTotals(ctx context.Context, day time.Time) ([]*domain.DailyTotal, error) {
	query := `SELECT DATE(created_at) AS date, SUM(total_price) AS total
	          FROM sales
	          WHERE DATE(created_at) = DATE($1)
	          GROUP BY DATE(created_at)`

	rows, err := r.db.QueryContext(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("query daily totals: %w", err)
	}
	defer rows.Close()

	var totals []*domain.DailyTotal
	for rows.Next() {
		dt := &domain.DailyTotal{}
		if err := rows.Scan(&dt.Date, &dt.Total); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		totals = append(totals, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily totals: %w", err)
	}
	return totals, nil
}

func (r *Repository) RevenueSince(ctx context.Context, since time.Time) (float64, error) {
	var total sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(total_price) FROM sales WHERE created_at >= $1`, since).
		Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("query revenue: %w", err)
	}
	return total.Float64, nil
}

func (r *Repository) GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `SELECT id, aggregate_id, event_type, payload, created_at, processed_at
	          FROM sales_outbox
	          WHERE processed_at IS NULL
	          ORDER BY created_at
	          LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		e := &OutboxEvent{}
		err := rows.Scan(&e.ID, &e.AggregateID, &e.EventType, &e.Payload, &e.CreatedAt, &e.ProcessedAt)
		if err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox events: %w", err)
	}
	return events, nil
}

func (r *Repository) MarkEventAsProcessed(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sales_outbox SET processed_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark outbox event processed: %w", err)
	}
	return nil
}
