package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

var _ repository.InventoryBatchRepository = (*InventoryBatchRepo)(nil)

const batchColumns = `id, dealer_id, product_id, batch_number, quantity_received, quantity_remaining, unit_cost,
	received_at, expires_at, created_at`

// InventoryBatchRepo lotes de inventario (capas FIFO).
type InventoryBatchRepo struct {
	q Querier
}

// NewInventoryBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryBatchRepository(q Querier) *InventoryBatchRepo {
	return &InventoryBatchRepo{q: q}
}

func scanBatch(row pgx.Row) (*entity.InventoryBatch, error) {
	var b entity.InventoryBatch
	if err := row.Scan(&b.ID, &b.DealerID, &b.ProductID, &b.BatchNumber, &b.QuantityReceived, &b.QuantityRemaining,
		&b.UnitCost, &b.ReceivedAt, &b.ExpiresAt, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *InventoryBatchRepo) Create(ctx context.Context, b *entity.InventoryBatch) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_batches (`+batchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.DealerID, b.ProductID, b.BatchNumber, b.QuantityReceived, b.QuantityRemaining,
		b.UnitCost, b.ReceivedAt, b.ExpiresAt, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// ListRemainingForUpdate lotes con saldo del más antiguo al más nuevo, bloqueados hasta el commit.
// Dos ventas concurrentes del mismo producto se serializan aquí.
func (r *InventoryBatchRepo) ListRemainingForUpdate(ctx context.Context, productID string) ([]*entity.InventoryBatch, error) {
	return r.collect(ctx, `
		SELECT `+batchColumns+` FROM inventory_batches
		WHERE product_id = $1 AND quantity_remaining > 0
		ORDER BY received_at, created_at
		FOR UPDATE`, productID)
}

// DecrementRemaining descuenta qty del lote; nunca deja saldo negativo.
func (r *InventoryBatchRepo) DecrementRemaining(ctx context.Context, batchID string, qty int) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE inventory_batches SET quantity_remaining = quantity_remaining - $2
		WHERE id = $1 AND quantity_remaining >= $2`, batchID, qty)
	if err != nil {
		return fmt.Errorf("decrement batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *InventoryBatchRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryBatch, error) {
	return r.collect(ctx, `
		SELECT `+batchColumns+` FROM inventory_batches
		WHERE product_id = $1 ORDER BY received_at, created_at`, productID)
}

func (r *InventoryBatchRepo) StockOf(ctx context.Context, productID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity_remaining), 0)::int FROM inventory_batches WHERE product_id = $1`, productID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("stock of: %w", err)
	}
	return n, nil
}

// StockOverview una fila por producto que cumple el filtro, sin paginar.
func (r *InventoryBatchRepo) StockOverview(ctx context.Context, f repository.ProductFilter) ([]repository.StockOverviewRow, error) {
	w := productWhere(f)
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.sku, p.name, p.category_id, s.stock, p.min_stock, p.cost, p.price,
			(SELECT COUNT(*) FROM inventory_batches b WHERE b.product_id = p.id AND b.quantity_remaining > 0)
		`+productFrom+w.sql()+` ORDER BY p.name, p.id`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("stock overview: %w", err)
	}
	defer rows.Close()
	var out []repository.StockOverviewRow
	for rows.Next() {
		var row repository.StockOverviewRow
		var category *string
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.Name, &category, &row.Stock, &row.MinStock,
			&row.Cost, &row.Price, &row.BatchCount); err != nil {
			return nil, fmt.Errorf("scan stock overview: %w", err)
		}
		row.CategoryID = deref(category)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *InventoryBatchRepo) collect(ctx context.Context, query string, args ...any) ([]*entity.InventoryBatch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
