package repository

import (
	"context"
	"time"

	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

// JobCardFilter criterios del tablero de taller.
type JobCardFilter struct {
	DealerID     string
	Status       string
	TechnicianID string
	Search       string // placa, cliente o número
	Limit        int
	Offset       int
}

// JobCardRepository define el puerto de persistencia para órdenes de taller (DIP).
// Update y AdvanceStatus hacen compare-and-set sobre version: si no coincide devuelven domain.ErrConflict.
type JobCardRepository interface {
	Create(ctx context.Context, job *entity.JobCard) error
	GetByID(ctx context.Context, id string) (*entity.JobCard, error)
	Update(ctx context.Context, job *entity.JobCard, expectedVersion int) error
	AdvanceStatus(ctx context.Context, id string, expectedVersion int, to string, at time.Time, deliveredAt *time.Time) error
	AddEvent(ctx context.Context, ev *entity.JobCardEvent) error
	Events(ctx context.Context, jobCardID string) ([]*entity.JobCardEvent, error)
	List(ctx context.Context, f JobCardFilter) ([]*entity.JobCard, int, error)
	CountByStatus(ctx context.Context, dealerID string) (map[string]int, error)
	NextNumber(ctx context.Context, dealerID string) (int64, error)
}
