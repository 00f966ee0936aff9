package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

var _ repository.PermissionRepository = (*PermissionRepo)(nil)

// PermissionRepo catálogo de permisos y asignaciones por usuario.
type PermissionRepo struct {
	q Querier
}

func NewPermissionRepository(q Querier) *PermissionRepo {
	return &PermissionRepo{q: q}
}

// Catalogue los permisos sembrados por la migración 000002.
func (r *PermissionRepo) Catalogue(ctx context.Context) ([]entity.Permission, error) {
	rows, err := r.q.Query(ctx, `SELECT code, name, perm_group FROM permissions ORDER BY perm_group, code`)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()
	var out []entity.Permission
	for rows.Next() {
		var p entity.Permission
		if err := rows.Scan(&p.Code, &p.Name, &p.Group); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PermissionRepo) CodesOf(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT code FROM dealer_user_permissions WHERE user_id = $1 ORDER BY code`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user permissions: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan user permission: %w", err)
		}
		out = append(out, code)
	}
	return out, rows.Err()
}

// CodesByDealer permisos explícitos de todo el personal del dealer, por usuario.
func (r *PermissionRepo) CodesByDealer(ctx context.Context, dealerID string) (map[string][]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT up.user_id, up.code
		FROM dealer_user_permissions up JOIN users u ON u.id = up.user_id
		WHERE u.dealer_id = $1
		ORDER BY up.user_id, up.code`, dealerID)
	if err != nil {
		return nil, fmt.Errorf("list dealer permissions: %w", err)
	}
	defer rows.Close()
	out := map[string][]string{}
	for rows.Next() {
		var userID, code string
		if err := rows.Scan(&userID, &code); err != nil {
			return nil, fmt.Errorf("scan dealer permission: %w", err)
		}
		out[userID] = append(out[userID], code)
	}
	return out, rows.Err()
}

// Grant idempotente: un código ya asignado se ignora.
func (r *PermissionRepo) Grant(ctx context.Context, userID string, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO dealer_user_permissions (user_id, code)
		SELECT $1, unnest($2::text[])
		ON CONFLICT (user_id, code) DO NOTHING`, userID, codes)
	if err != nil {
		return fmt.Errorf("grant permissions: %w", err)
	}
	return nil
}

func (r *PermissionRepo) Revoke(ctx context.Context, userID string, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `DELETE FROM dealer_user_permissions WHERE user_id = $1 AND code = ANY($2)`, userID, codes)
	if err != nil {
		return fmt.Errorf("revoke permissions: %w", err)
	}
	return nil
}

func (r *PermissionRepo) RevokeAll(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM dealer_user_permissions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("revoke all permissions: %w", err)
	}
	return nil
}
