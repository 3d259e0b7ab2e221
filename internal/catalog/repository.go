package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed read access.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const productColumns = `p.id, p.name, COALESCE(p.category, ''), COALESCE(p.barcode, ''), COALESCE(p.cost_price, 0)`

// FindCashier looks up a user by id. A missing user is not an error; the
// caller receives (nil, nil).
func (r *Repository) FindCashier(ctx context.Context, id int64) (*Cashier, error) {
	var c Cashier
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, role, COALESCE(email, ''), COALESCE(phone, '') FROM users WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Role, &c.Email, &c.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: find cashier: %w", err)
	}
	return &c, nil
}

// SearchProducts returns non-deleted products whose name contains the term,
// capped at limit rows.
func (r *Repository) SearchProducts(ctx context.Context, term string, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + strings.TrimSpace(term) + "%"
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products p
		 WHERE p.deleted_at IS NULL AND p.name ILIKE $1
		 ORDER BY p.name ASC
		 LIMIT $2`,
		pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("catalog: search products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListProducts returns all non-deleted products ordered by name.
func (r *Repository) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products p
		 WHERE p.deleted_at IS NULL
		 ORDER BY p.name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("catalog: list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListCategories returns the distinct non-empty categories of non-deleted
// products.
func (r *Repository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT category FROM products
		 WHERE deleted_at IS NULL AND category IS NOT NULL AND category <> ''
		 ORDER BY category ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("catalog: list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("catalog: scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: list categories: %w", err)
	}
	return categories, nil
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Barcode, &p.CostPrice); err != nil {
			return nil, fmt.Errorf("catalog: scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: read products: %w", err)
	}
	return products, nil
}
