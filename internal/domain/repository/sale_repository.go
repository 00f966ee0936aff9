package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

// SaleFilter criterios del historial de ventas.
type SaleFilter struct {
	DealerID      string
	From          *time.Time
	To            *time.Time
	PaymentMethod string
	Status        string
	CashierID     string
	Search        string // número de venta o cliente
	Limit         int
	Offset        int
}

// SaleSummary agregados de las ventas completadas que cumplen el filtro.
type SaleSummary struct {
	Count     int
	Gross     decimal.Decimal
	Tax       decimal.Decimal
	ByPayment map[string]decimal.Decimal
}

// SaleRepository define el puerto de persistencia para ventas POS (DIP).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	Items(ctx context.Context, saleID string) ([]*entity.SaleItem, error)
	MarkVoided(ctx context.Context, id, reason string, at time.Time) error
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, int, error)
	Summary(ctx context.Context, f SaleFilter) (SaleSummary, error)
	// NextNumber consecutivo de venta del dealer.
	NextNumber(ctx context.Context, dealerID string) (int64, error)
}
