package repository

import (
	"context"

	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

// PermissionRepository define el puerto de persistencia para el catálogo de permisos
// y la tabla puente dealer_user_permissions (DIP).
type PermissionRepository interface {
	Catalogue(ctx context.Context) ([]entity.Permission, error)
	CodesOf(ctx context.Context, userID string) ([]string, error)
	CodesByDealer(ctx context.Context, dealerID string) (map[string][]string, error)
	Grant(ctx context.Context, userID string, codes []string) error
	Revoke(ctx context.Context, userID string, codes []string) error
	RevokeAll(ctx context.Context, userID string) error
}
