package stats

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository exposes the aggregation queries the service relies on.
type Repository interface {
	SummarizeSales(ctx context.Context, f StatsFilter) ([]RawSummaryRow, error)
	BreakdownByProduct(ctx context.Context, f StatsFilter) ([]RawBreakdownRow, error)
}

// PGRepository runs the aggregations against PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Shared filter clause. Category and product name are mutually exclusive
// by the time a filter reaches a query (the normalizer drops productName
// when category is set); profit treats a missing cost price as zero.
const salesFilterClause = `
	o.created_at >= $1 AND o.created_at <= $2
	AND ($3::text = '' OR p.category = $3)
	AND ($4::text = '' OR p.name ILIKE '%' || $4 || '%')
	AND ($5::bigint IS NULL OR o.user_id = $5)`

const summarySQL = `
SELECT
	COALESCE(SUM(oi.quantity), 0),
	COALESCE(SUM(oi.total), 0),
	COALESCE(SUM((oi.unit_price - COALESCE(p.cost_price, 0)) * oi.quantity), 0),
	COUNT(DISTINCT o.id),
	COUNT(DISTINCT o.user_id)
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
LEFT JOIN products p ON p.id = oi.product_id
WHERE` + salesFilterClause

const breakdownSQL = `
SELECT
	p.id,
	p.name,
	COALESCE(p.category, ''),
	COALESCE(p.barcode, ''),
	SUM(oi.quantity),
	SUM(oi.total),
	AVG(oi.unit_price),
	SUM((oi.unit_price - COALESCE(p.cost_price, 0)) * oi.quantity)
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
JOIN products p ON p.id = oi.product_id
WHERE` + salesFilterClause + `
GROUP BY p.id, p.name, p.category, p.barcode
ORDER BY SUM(oi.total) DESC, p.id ASC`

// SummarizeSales aggregates quantity, revenue, profit and distinct order
// and cashier counts over the filter scope. An empty scope yields a single
// all-zero row from the SQL aggregates.
func (r *PGRepository) SummarizeSales(ctx context.Context, f StatsFilter) ([]RawSummaryRow, error) {
	rows, err := r.pool.Query(ctx, summarySQL,
		f.StartDate, f.EndBound, f.Category, f.ProductName, f.CashierID)
	if err != nil {
		return nil, fmt.Errorf("stats: summarize sales: %w", err)
	}
	defer rows.Close()

	out := make([]RawSummaryRow, 0, 1)
	for rows.Next() {
		var raw RawSummaryRow
		if err := rows.Scan(&raw.Quantity, &raw.Revenue, &raw.Profit, &raw.Orders, &raw.Cashiers); err != nil {
			return nil, fmt.Errorf("stats: scan summary: %w", err)
		}
		out = append(out, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats: summarize sales: %w", err)
	}
	return out, nil
}

// BreakdownByProduct aggregates the same scope grouped by product
// identity, ordered by revenue descending with product id as tiebreak.
func (r *PGRepository) BreakdownByProduct(ctx context.Context, f StatsFilter) ([]RawBreakdownRow, error) {
	rows, err := r.pool.Query(ctx, breakdownSQL,
		f.StartDate, f.EndBound, f.Category, f.ProductName, f.CashierID)
	if err != nil {
		return nil, fmt.Errorf("stats: product breakdown: %w", err)
	}
	defer rows.Close()

	out := make([]RawBreakdownRow, 0)
	for rows.Next() {
		var raw RawBreakdownRow
		if err := rows.Scan(
			&raw.ProductID, &raw.Name, &raw.Category, &raw.Barcode,
			&raw.Quantity, &raw.Revenue, &raw.AvgPrice, &raw.Profit,
		); err != nil {
			return nil, fmt.Errorf("stats: scan breakdown: %w", err)
		}
		out = append(out, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats: product breakdown: %w", err)
	}
	return out, nil
}
