package repository

import (
	"context"

	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

// UserFilter criterios del registro de usuarios.
type UserFilter struct {
	Role     string
	Status   string
	DealerID string
	Search   string // email o nombre
	Limit    int
	Offset   int
}

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Update persiste nombre, teléfono, rol y estado.
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f UserFilter) ([]*entity.User, int, error)
	ListByDealer(ctx context.Context, dealerID string) ([]*entity.User, error)
}
