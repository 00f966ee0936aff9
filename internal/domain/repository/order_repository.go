package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos del marketplace y sus sub-pedidos (DIP).
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *entity.Order) error
	CreateSubOrder(ctx context.Context, sub *entity.SubOrder) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
	GetSubOrder(ctx context.Context, id string) (*entity.SubOrder, error)
	// LockOrder bloquea la fila del pedido hasta el fin de la tx; serializa el cálculo del estado agregado.
	LockOrder(ctx context.Context, id string) error
	SubOrdersOf(ctx context.Context, orderID string) ([]*entity.SubOrder, error)
	ItemsOf(ctx context.Context, subOrderID string) ([]*entity.OrderItem, error)
	// AdvanceSubOrder compare-and-set sobre version; ErrConflict si no coincide.
	AdvanceSubOrder(ctx context.Context, id string, expectedVersion int, to, tracking, carrier string, at time.Time) error
	UpdateOrderStatus(ctx context.Context, id, status string, at time.Time) error
	ListDealerSubOrders(ctx context.Context, dealerID, status string, limit, offset int) ([]*entity.SubOrder, int, error)
	ListCustomerOrders(ctx context.Context, customerID string, limit int) ([]*entity.Order, error)
	CustomerStats(ctx context.Context, customerID string) (count int, spent decimal.Decimal, err error)
	NextNumber(ctx context.Context) (int64, error)
}
