package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo kardex append-only.
type StockMovementRepo struct {
	q Querier
}

func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (id, dealer_id, product_id, batch_id, type, quantity, unit_cost, reference, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.DealerID, m.ProductID, nullIfEmpty(m.BatchID), m.Type, m.Quantity, m.UnitCost,
		m.Reference, m.Notes, nullIfEmpty(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByProduct kardex del producto, el más reciente primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements WHERE product_id = $1`, productID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}
	w := where{args: []any{productID}}
	rows, err := r.q.Query(ctx, `
		SELECT id, dealer_id, product_id, batch_id, type, quantity, unit_cost, reference, notes, created_by, created_at
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at DESC, id DESC`+w.page(limit, offset), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var batchID, createdBy *string
		if err := rows.Scan(&m.ID, &m.DealerID, &m.ProductID, &batchID, &m.Type, &m.Quantity, &m.UnitCost,
			&m.Reference, &m.Notes, &createdBy, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		m.BatchID, m.CreatedBy = deref(batchID), deref(createdBy)
		list = append(list, &m)
	}
	return list, total, rows.Err()
}
