package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/sergen67/4CodeApps/internal/catalog/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT p.id, p.name, p.price, COALESCE(p.image_url, ''), p.category_id, COALESCE(c.name, ''), p.variants, p.created_at
	          FROM products p
	          LEFT JOIN categories c ON c.id = p.category_id
	          ORDER BY p.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT p.id, p.name, p.price, COALESCE(p.image_url, ''), p.category_id, COALESCE(c.name, ''), p.variants, p.created_at
	          FROM products p
	          LEFT JOIN categories c ON c.id = p.category_id
	          WHERE p.id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repository) CreateProduct(ctx context.Context, p *domain.Product) error {
	variantsJSON, err := marshalVariants(p.Variants)
	if err != nil {
		return err
	}

	query := `INSERT INTO products (name, price, image_url, category_id, variants)
	          VALUES ($1, $2, NULLIF($3, ''), $4, $5)
	          RETURNING id, created_at`

	err = r.db.QueryRowContext(ctx, query, p.Name, p.Price, p.ImageURL, p.CategoryID, variantsJSON).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *Repository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	variantsJSON, err := marshalVariants(p.Variants)
	if err != nil {
		return err
	}

	query := `UPDATE products
	          SET name = $2, price = $3, image_url = NULLIF($4, ''), category_id = $5, variants = $6
	          WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Price, p.ImageURL, p.CategoryID, variantsJSON)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c := &domain.Category{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func (r *Repository) CreateCategory(ctx context.Context, c *domain.Category) error {
	err := r.db.QueryRowContext(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, c.Name).
		Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	p := &domain.Product{}
	var variantsJSON []byte
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.ImageURL,
		&p.CategoryID,
		&p.Category,
		&variantsJSON,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	if err := json.Unmarshal(variantsJSON, &p.Variants); err != nil {
		return nil, fmt.Errorf("unmarshal product variants: %w", err)
	}
	return p, nil
}

func marshalVariants(variants []domain.Variant) ([]byte, error) {
	if variants == nil {
		variants = []domain.Variant{}
	}
	b, err := json.Marshal(variants)
	if err != nil {
		return nil, fmt.Errorf("marshal product variants: %w", err)
	}
	return b, nil
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
