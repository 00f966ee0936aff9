package usecase

import (
	"context"

	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

// DealerTxRunner transacción para el alta de dealer + owner.
type DealerTxRunner interface {
	RunDealer(ctx context.Context, fn func(
		dealerRepo repository.DealerRepository,
		userRepo repository.UserRepository,
	) error) error
}

// TeamTxRunner transacción para altas de personal y sincronización de permisos.
type TeamTxRunner interface {
	RunTeam(ctx context.Context, fn func(
		userRepo repository.UserRepository,
		permRepo repository.PermissionRepository,
	) error) error
}
