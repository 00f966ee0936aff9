package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard del dealer.
type AnalyticsRepo struct {
	pool Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool Querier) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetSalesMetrics ingresos y costo de las ventas completadas en [start, end).
// Costo = Σ cantidad × costo unitario congelado en la línea al vender (FIFO).
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, dealerID string, start, end time.Time) (repository.SalesMetrics, error) {
	const query = `
	SELECT
	    COUNT(DISTINCT s.id)                          AS sale_count,
	    COALESCE(SUM(si.line_total), 0)               AS revenue,
	    COALESCE(SUM(si.quantity * si.unit_cost), 0)  AS cost
	FROM sales s
	LEFT JOIN sale_items si ON si.sale_id = s.id
	WHERE s.dealer_id = $1
	  AND s.status = 'completed'
	  AND s.created_at >= $2 AND s.created_at < $3`

	var m repository.SalesMetrics
	if err := r.pool.QueryRow(ctx, query, dealerID, start, end).Scan(&m.Count, &m.Revenue, &m.Cost); err != nil {
		return repository.SalesMetrics{}, fmt.Errorf("sales metrics: %w", err)
	}
	return m, nil
}

// GetTopProducts productos con más unidades vendidas en el período.
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, dealerID string, start, end time.Time, limit int) ([]repository.TopProductResult, error) {
	const query = `
	SELECT
	    p.id,
	    p.sku,
	    p.name,
	    SUM(si.quantity)::int   AS units,
	    SUM(si.line_total)      AS revenue
	FROM sales s
	JOIN sale_items si ON si.sale_id = s.id
	JOIN products   p  ON p.id       = si.product_id
	WHERE s.dealer_id = $1
	  AND s.status = 'completed'
	  AND s.created_at >= $2 AND s.created_at < $3
	GROUP BY p.id, p.sku, p.name
	ORDER BY units DESC, p.sku
	LIMIT $4`

	rows, err := r.pool.Query(ctx, query, dealerID, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var out []repository.TopProductResult
	for rows.Next() {
		var t repository.TopProductResult
		if err := rows.Scan(&t.ProductID, &t.SKU, &t.Name, &t.Units, &t.Revenue); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CountStockAlerts productos activos con stock bajo (0 < stock <= mínimo) y agotados.
func (r *AnalyticsRepo) CountStockAlerts(ctx context.Context, dealerID string) (low, out int, err error) {
	const query = `
	SELECT
	    COUNT(*) FILTER (WHERE s.stock > 0 AND s.stock <= p.min_stock),
	    COUNT(*) FILTER (WHERE s.stock <= 0)
	` + productFrom + `
	WHERE p.dealer_id = $1 AND p.is_active`

	if err := r.pool.QueryRow(ctx, query, dealerID).Scan(&low, &out); err != nil {
		return 0, 0, fmt.Errorf("stock alerts: %w", err)
	}
	return low, out, nil
}

// CountOpenJobCards órdenes de taller aún no entregadas.
func (r *AnalyticsRepo) CountOpenJobCards(ctx context.Context, dealerID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM job_cards WHERE dealer_id = $1 AND status <> 'delivered'`, dealerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("open job cards: %w", err)
	}
	return n, nil
}

// CountPendingSubOrders sub-pedidos del dealer aún no despachados (ni shipped ni delivered).
func (r *AnalyticsRepo) CountPendingSubOrders(ctx context.Context, dealerID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM sub_orders WHERE dealer_id = $1 AND status NOT IN ('shipped', 'delivered')`, dealerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("pending sub orders: %w", err)
	}
	return n, nil
}
