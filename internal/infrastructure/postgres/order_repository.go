package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const (
	orderColumns    = `id, customer_id, number, total, shipping_address, status, created_at, updated_at`
	subOrderColumns = `id, order_id, dealer_id, subtotal, status, tracking_number, carrier, version, created_at, updated_at`
)

// OrderRepo pedidos del marketplace: un pedido del cliente se parte en un sub-pedido por dealer.
type OrderRepo struct {
	q Querier
}

func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	if err := row.Scan(&o.ID, &o.CustomerID, &o.Number, &o.Total, &o.ShippingAddress, &o.Status,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func scanSubOrder(row pgx.Row) (*entity.SubOrder, error) {
	var so entity.SubOrder
	if err := row.Scan(&so.ID, &so.OrderID, &so.DealerID, &so.Subtotal, &so.Status, &so.TrackingNumber, &so.Carrier,
		&so.Version, &so.CreatedAt, &so.UpdatedAt); err != nil {
		return nil, err
	}
	return &so, nil
}

func (r *OrderRepo) CreateOrder(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, o.CustomerID, o.Number, o.Total, o.ShippingAddress, o.Status, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) CreateSubOrder(ctx context.Context, so *entity.SubOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sub_orders (`+subOrderColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		so.ID, so.OrderID, so.DealerID, so.Subtotal, so.Status, so.TrackingNumber, so.Carrier, so.Version,
		so.CreatedAt, so.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sub order: %w", err)
	}
	return nil
}

func (r *OrderRepo) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO order_items (id, sub_order_id, product_id, variant_id, name, quantity, unit_price, unit_cost, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		it.ID, it.SubOrderID, it.ProductID, nullIfEmpty(it.VariantID), it.Name, it.Quantity, it.UnitPrice, it.UnitCost, it.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

func (r *OrderRepo) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) GetSubOrder(ctx context.Context, id string) (*entity.SubOrder, error) {
	so, err := scanSubOrder(r.q.QueryRow(ctx, `SELECT `+subOrderColumns+` FROM sub_orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sub order: %w", err)
	}
	return so, nil
}

func (r *OrderRepo) SubOrdersOf(ctx context.Context, orderID string) ([]*entity.SubOrder, error) {
	return r.subOrders(ctx, `SELECT `+subOrderColumns+` FROM sub_orders WHERE order_id = $1 ORDER BY created_at, id`, orderID)
}

func (r *OrderRepo) ItemsOf(ctx context.Context, subOrderID string) ([]*entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sub_order_id, product_id, variant_id, name, quantity, unit_price, unit_cost, line_total
		FROM order_items WHERE sub_order_id = $1 ORDER BY name, id`, subOrderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		var variant *string
		if err := rows.Scan(&it.ID, &it.SubOrderID, &it.ProductID, &variant, &it.Name, &it.Quantity,
			&it.UnitPrice, &it.UnitCost, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		it.VariantID = deref(variant)
		list = append(list, &it)
	}
	return list, rows.Err()
}

// AdvanceSubOrder CAS sobre version. Tracking y carrier vacíos conservan el valor anterior.
func (r *OrderRepo) AdvanceSubOrder(ctx context.Context, id string, expectedVersion int, to, tracking, carrier string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sub_orders SET status = $3,
			tracking_number = COALESCE(NULLIF($4, ''), tracking_number),
			carrier = COALESCE(NULLIF($5, ''), carrier),
			updated_at = $6, version = version + 1
		WHERE id = $1 AND version = $2`,
		id, expectedVersion, to, tracking, carrier, at,
	)
	if err != nil {
		return fmt.Errorf("advance sub order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sub_orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check sub order: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

// LockOrder SELECT … FOR UPDATE sobre el pedido. Bajo READ COMMITTED las lecturas posteriores de la
// tx ven lo que confirmó quien tenía el bloqueo.
func (r *OrderRepo) LockOrder(ctx context.Context, id string) error {
	var locked string
	err := r.q.QueryRow(ctx, `SELECT id FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock order: %w", err)
	}
	return nil
}

func (r *OrderRepo) UpdateOrderStatus(ctx context.Context, id, status string, at time.Time) error {
	if _, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`, id, status, at); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// ListDealerSubOrders bandeja de despacho del dealer, lo más reciente primero.
func (r *OrderRepo) ListDealerSubOrders(ctx context.Context, dealerID, status string, limit, offset int) ([]*entity.SubOrder, int, error) {
	var w where
	w.add("dealer_id = ?", dealerID)
	if status != "" {
		w.add("status = ?", status)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sub_orders`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sub orders: %w", err)
	}
	list, err := r.subOrders(ctx, `SELECT `+subOrderColumns+` FROM sub_orders`+w.sql()+
		` ORDER BY created_at DESC, id`+w.page(limit, offset), w.args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListCustomerOrders últimos pedidos del cliente, el más reciente primero.
func (r *OrderRepo) ListCustomerOrders(ctx context.Context, customerID string, limit int) ([]*entity.Order, error) {
	w := where{args: []any{customerID}}
	rows, err := r.q.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE customer_id = $1
		ORDER BY created_at DESC, number DESC`+w.page(limit, 0), w.args...)
	if err != nil {
		return nil, fmt.Errorf("list customer orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r *OrderRepo) CustomerStats(ctx context.Context, customerID string) (int, decimal.Decimal, error) {
	var count int
	var spent decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(total), 0) FROM orders WHERE customer_id = $1`, customerID).
		Scan(&count, &spent)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("customer stats: %w", err)
	}
	return count, spent, nil
}

// NextNumber consecutivo global PED-000001.
func (r *OrderRepo) NextNumber(ctx context.Context) (int64, error) {
	return nextSequence(ctx, r.q, "order")
}

func (r *OrderRepo) subOrders(ctx context.Context, query string, args ...any) ([]*entity.SubOrder, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sub orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.SubOrder
	for rows.Next() {
		so, err := scanSubOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sub order: %w", err)
		}
		list = append(list, so)
	}
	return list, rows.Err()
}
