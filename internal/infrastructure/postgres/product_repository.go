package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// productFrom el stock sale siempre de los lotes; nunca se guarda en products.
const productFrom = `
	FROM products p
	LEFT JOIN LATERAL (
		SELECT COALESCE(SUM(b.quantity_remaining), 0)::int AS stock
		FROM inventory_batches b WHERE b.product_id = p.id
	) s ON true`

const productColumns = `p.id, p.dealer_id, p.category_id, p.sku, p.name, p.description, p.brand, p.price, p.cost,
	p.min_stock, p.image_url, p.is_active, p.attributes, s.stock, p.created_at, p.updated_at`

const stockStatusExpr = `CASE WHEN s.stock <= 0 THEN 'out_of_stock'
	WHEN s.stock <= p.min_stock THEN 'low_stock' ELSE 'in_stock' END`

var productSort = map[string]string{
	"name":       "p.name",
	"price":      "p.price",
	"stock":      "s.stock",
	"created_at": "p.created_at",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var category *string
	err := row.Scan(&p.ID, &p.DealerID, &category, &p.SKU, &p.Name, &p.Description, &p.Brand, &p.Price, &p.Cost,
		&p.MinStock, &p.ImageURL, &p.IsActive, &p.Attributes, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.CategoryID = deref(category)
	return &p, nil
}

// productWhere filtros comunes de List, Summary y StockOverview.
func productWhere(f repository.ProductFilter) *where {
	w := &where{}
	if f.DealerID != "" {
		w.add("p.dealer_id = ?", f.DealerID)
	}
	if f.CategoryID != "" {
		w.add("p.category_id = ?", f.CategoryID)
	}
	if f.Search != "" {
		w.add("(p.name ILIKE ? OR p.sku ILIKE ? OR p.brand ILIKE ?)", likePattern(f.Search))
	}
	if f.Active != nil {
		w.add("p.is_active = ?", *f.Active)
	}
	if f.Status != "" {
		w.add(stockStatusExpr+" = ?", f.Status)
	}
	return w
}

// Create persiste un nuevo producto. SKU repetido en el dealer devuelve ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (id, dealer_id, category_id, sku, name, description, brand, price, cost, min_stock,
			image_url, is_active, attributes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		p.ID, p.DealerID, nullIfEmpty(p.CategoryID), p.SKU, p.Name, p.Description, p.Brand, p.Price, p.Cost, p.MinStock,
		p.ImageURL, p.IsActive, p.Attributes, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID con su stock actual.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+productFrom+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetForUpdate bloquea la fila del producto (FOR UPDATE) y luego lo lee con su stock.
// El costo promedio se recalcula sobre la fila bloqueada: dos recepciones concurrentes se serializan.
func (r *ProductRepo) GetForUpdate(ctx context.Context, dealerID, id string) (*entity.Product, error) {
	var locked string
	err := r.q.QueryRow(ctx, `SELECT id FROM products WHERE id = $1 AND dealer_id = $2 FOR UPDATE`, id, dealerID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock product: %w", err)
	}
	return r.GetByID(ctx, locked)
}

// GetByDealerAndSKU obtiene un producto por dealer y SKU.
func (r *ProductRepo) GetByDealerAndSKU(ctx context.Context, dealerID, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx,
		`SELECT `+productColumns+productFrom+` WHERE p.dealer_id = $1 AND p.sku = $2`, dealerID, sku))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// Update actualiza datos de catálogo. Cost y stock no se tocan.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET category_id = $2, sku = $3, name = $4, description = $5, brand = $6, price = $7,
			min_stock = $8, image_url = $9, is_active = $10, attributes = $11, updated_at = $12
		WHERE id = $1`,
		p.ID, nullIfEmpty(p.CategoryID), p.SKU, p.Name, p.Description, p.Brand, p.Price,
		p.MinStock, p.ImageURL, p.IsActive, p.Attributes, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCost costo promedio ponderado recalculado al recibir un lote.
func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET cost = $2, updated_at = now() WHERE id = $1`, productID, cost)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	return nil
}

// SetActive borrado lógico / reactivación.
func (r *ProductRepo) SetActive(ctx context.Context, productID string, active bool) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET is_active = $2, updated_at = now() WHERE id = $1`, productID, active)
	if err != nil {
		return fmt.Errorf("set product active: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List página filtrada y total. Orden por defecto: nombre ascendente.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	w := productWhere(f)
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+productFrom+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	order, ok := productSort[f.SortBy]
	if !ok {
		order = "p.name"
	}
	if f.SortDesc {
		order += " DESC"
	}
	query := `SELECT ` + productColumns + productFrom + w.sql() + ` ORDER BY ` + order + `, p.id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// Summary agregados sobre todo el conjunto filtrado.
func (r *ProductRepo) Summary(ctx context.Context, f repository.ProductFilter) (repository.ProductSummary, error) {
	w := productWhere(f)
	sum := repository.ProductSummary{}
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(s.stock), 0), COALESCE(SUM(s.stock * p.cost), 0),
			COUNT(*) FILTER (WHERE s.stock > 0 AND s.stock <= p.min_stock),
			COUNT(*) FILTER (WHERE s.stock <= 0)`+productFrom+w.sql(), w.args...).
		Scan(&sum.TotalProducts, &sum.TotalUnits, &sum.InventoryValue, &sum.LowStock, &sum.OutOfStock)
	if err != nil {
		return repository.ProductSummary{}, fmt.Errorf("product summary: %w", err)
	}
	return sum, nil
}

const variantColumns = `id, product_id, sku, name, price, attributes, is_active, created_at, updated_at`

func scanVariant(row pgx.Row) (*entity.ProductVariant, error) {
	var v entity.ProductVariant
	if err := row.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Name, &v.Price, &v.Attributes, &v.IsActive,
		&v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ProductRepo) CreateVariant(ctx context.Context, v *entity.ProductVariant) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_variants (`+variantColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		v.ID, v.ProductID, v.SKU, v.Name, v.Price, v.Attributes, v.IsActive, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetVariant(ctx context.Context, id string) (*entity.ProductVariant, error) {
	v, err := scanVariant(r.q.QueryRow(ctx, `SELECT `+variantColumns+` FROM product_variants WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return v, nil
}

func (r *ProductRepo) UpdateVariant(ctx context.Context, v *entity.ProductVariant) error {
	_, err := r.q.Exec(ctx, `
		UPDATE product_variants SET sku = $2, name = $3, price = $4, attributes = $5, is_active = $6, updated_at = $7
		WHERE id = $1`,
		v.ID, v.SKU, v.Name, v.Price, v.Attributes, v.IsActive, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update variant: %w", err)
	}
	return nil
}

func (r *ProductRepo) DeleteVariant(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_variants WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete variant: %w", err)
	}
	return nil
}

func (r *ProductRepo) ListVariants(ctx context.Context, productID string) ([]*entity.ProductVariant, error) {
	rows, err := r.q.Query(ctx, `SELECT `+variantColumns+` FROM product_variants WHERE product_id = $1 ORDER BY sku`, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductVariant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
