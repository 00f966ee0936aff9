package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

var _ repository.DealerRepository = (*DealerRepo)(nil)

const dealerColumns = `id, name, slug, legal_name, tax_id, description, email, phone, address, city,
	logo_url, banner_url, tax_rate, currency, status, created_at, updated_at`

// DealerRepo implementación del puerto DealerRepository sobre PostgreSQL.
type DealerRepo struct {
	q Querier
}

// NewDealerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDealerRepository(q Querier) *DealerRepo {
	return &DealerRepo{q: q}
}

func scanDealer(row pgx.Row) (*entity.Dealer, error) {
	var d entity.Dealer
	err := row.Scan(&d.ID, &d.Name, &d.Slug, &d.LegalName, &d.TaxID, &d.Description, &d.Email, &d.Phone,
		&d.Address, &d.City, &d.LogoURL, &d.BannerURL, &d.TaxRate, &d.Currency, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create persiste un dealer. Slug repetido devuelve ErrDuplicate.
func (r *DealerRepo) Create(ctx context.Context, d *entity.Dealer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO dealers (`+dealerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		d.ID, d.Name, d.Slug, d.LegalName, d.TaxID, d.Description, d.Email, d.Phone, d.Address, d.City,
		d.LogoURL, d.BannerURL, d.TaxRate, d.Currency, d.Status, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert dealer: %w", err)
	}
	return nil
}

// GetByID dealer por ID; nil si no existe.
func (r *DealerRepo) GetByID(ctx context.Context, id string) (*entity.Dealer, error) {
	d, err := scanDealer(r.q.QueryRow(ctx, `SELECT `+dealerColumns+` FROM dealers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get dealer: %w", err)
	}
	return d, nil
}

// GetBySlug dealer por slug; nil si no existe.
func (r *DealerRepo) GetBySlug(ctx context.Context, slug string) (*entity.Dealer, error) {
	d, err := scanDealer(r.q.QueryRow(ctx, `SELECT `+dealerColumns+` FROM dealers WHERE slug = $1`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get dealer by slug: %w", err)
	}
	return d, nil
}

// Update persiste los ajustes. El slug y el estado no cambian aquí.
func (r *DealerRepo) Update(ctx context.Context, d *entity.Dealer) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE dealers SET name = $2, legal_name = $3, tax_id = $4, description = $5, email = $6, phone = $7,
			address = $8, city = $9, logo_url = $10, banner_url = $11, tax_rate = $12, currency = $13, updated_at = $14
		WHERE id = $1`,
		d.ID, d.Name, d.LegalName, d.TaxID, d.Description, d.Email, d.Phone,
		d.Address, d.City, d.LogoURL, d.BannerURL, d.TaxRate, d.Currency, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update dealer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus aprobación, suspensión o rechazo.
func (r *DealerRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE dealers SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update dealer status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List página de dealers ordenada por nombre y total filtrado.
func (r *DealerRepo) List(ctx context.Context, f repository.DealerFilter) ([]*entity.Dealer, int, error) {
	var w where
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.Search != "" {
		w.add("(name ILIKE ? OR slug ILIKE ? OR email ILIKE ?)", likePattern(f.Search))
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM dealers`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count dealers: %w", err)
	}
	query := `SELECT ` + dealerColumns + ` FROM dealers` + w.sql() +
		` ORDER BY name` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list dealers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Dealer
	for rows.Next() {
		d, err := scanDealer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan dealer: %w", err)
		}
		list = append(list, d)
	}
	return list, total, rows.Err()
}
