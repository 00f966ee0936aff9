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

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, dealer_id, cashier_id, number, customer_name, customer_phone, payment_method, subtotal,
	discount, tax_total, total, amount_paid, change_due, status, notes, void_reason, created_at, updated_at`

// SaleRepo ventas POS. Las ventas nunca se borran: una anulación cambia el estado.
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.DealerID, &s.CashierID, &s.Number, &s.CustomerName, &s.CustomerPhone, &s.PaymentMethod,
		&s.Subtotal, &s.Discount, &s.TaxTotal, &s.Total, &s.AmountPaid, &s.ChangeDue, &s.Status, &s.Notes,
		&s.VoidReason, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func saleWhere(f repository.SaleFilter) *where {
	w := &where{}
	if f.DealerID != "" {
		w.add("dealer_id = ?", f.DealerID)
	}
	if f.From != nil {
		w.add("created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("created_at < ?", *f.To)
	}
	if f.PaymentMethod != "" {
		w.add("payment_method = ?", f.PaymentMethod)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.CashierID != "" {
		w.add("cashier_id = ?", f.CashierID)
	}
	if f.Search != "" {
		w.add("(number ILIKE ? OR customer_name ILIKE ?)", likePattern(f.Search))
	}
	return w
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		s.ID, s.DealerID, s.CashierID, s.Number, s.CustomerName, s.CustomerPhone, s.PaymentMethod, s.Subtotal,
		s.Discount, s.TaxTotal, s.Total, s.AmountPaid, s.ChangeDue, s.Status, s.Notes, s.VoidReason, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) CreateItem(ctx context.Context, it *entity.SaleItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_items (id, sale_id, product_id, variant_id, description, quantity, unit_price, unit_cost, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		it.ID, it.SaleID, it.ProductID, nullIfEmpty(it.VariantID), it.Description, it.Quantity, it.UnitPrice, it.UnitCost, it.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate bloquea la venta: dos anulaciones simultáneas no restauran stock dos veces.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) get(ctx context.Context, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

func (r *SaleRepo) Items(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, variant_id, description, quantity, unit_price, unit_cost, line_total
		FROM sale_items WHERE sale_id = $1 ORDER BY description, id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		var variant *string
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &variant, &it.Description, &it.Quantity,
			&it.UnitPrice, &it.UnitCost, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		it.VariantID = deref(variant)
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *SaleRepo) MarkVoided(ctx context.Context, id, reason string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales SET status = $2, void_reason = $3, updated_at = $4
		WHERE id = $1 AND status = $5`,
		id, entity.SaleStatusVoided, reason, at, entity.SaleStatusCompleted)
	if err != nil {
		return fmt.Errorf("void sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// List historial, la venta más reciente primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	w := saleWhere(f)
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM sales`+w.sql()+
		` ORDER BY number DESC`+w.page(f.Limit, f.Offset), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// Summary totales por medio de pago; solo cuentan las ventas completadas.
func (r *SaleRepo) Summary(ctx context.Context, f repository.SaleFilter) (repository.SaleSummary, error) {
	w := saleWhere(f)
	w.add("status = ?", entity.SaleStatusCompleted)
	rows, err := r.q.Query(ctx, `
		SELECT payment_method, COUNT(*), COALESCE(SUM(total), 0), COALESCE(SUM(tax_total), 0)
		FROM sales`+w.sql()+` GROUP BY payment_method`, w.args...)
	if err != nil {
		return repository.SaleSummary{}, fmt.Errorf("sale summary: %w", err)
	}
	defer rows.Close()
	sum := repository.SaleSummary{Gross: decimal.Zero, Tax: decimal.Zero, ByPayment: map[string]decimal.Decimal{}}
	for rows.Next() {
		var method string
		var count int
		var gross, tax decimal.Decimal
		if err := rows.Scan(&method, &count, &gross, &tax); err != nil {
			return repository.SaleSummary{}, fmt.Errorf("scan sale summary: %w", err)
		}
		sum.Count += count
		sum.Gross = sum.Gross.Add(gross)
		sum.Tax = sum.Tax.Add(tax)
		sum.ByPayment[method] = gross
	}
	return sum, rows.Err()
}

// NextNumber consecutivo V-000001 por dealer.
func (r *SaleRepo) NextNumber(ctx context.Context, dealerID string) (int64, error) {
	return nextSequence(ctx, r.q, "sale:"+dealerID)
}
