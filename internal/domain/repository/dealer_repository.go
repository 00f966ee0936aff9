package repository

import (
	"context"

	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

// DealerFilter criterios para listar dealers (administración de plataforma).
type DealerFilter struct {
	Status string
	Search string // nombre, slug o email
	Limit  int
	Offset int
}

// DealerRepository define el puerto de persistencia para Dealer (DIP).
type DealerRepository interface {
	Create(ctx context.Context, dealer *entity.Dealer) error
	GetByID(ctx context.Context, id string) (*entity.Dealer, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Dealer, error)
	Update(ctx context.Context, dealer *entity.Dealer) error
	UpdateStatus(ctx context.Context, id, status string) error
	// List devuelve la página y el total de registros que cumplen el filtro.
	List(ctx context.Context, f DealerFilter) ([]*entity.Dealer, int, error)
}
