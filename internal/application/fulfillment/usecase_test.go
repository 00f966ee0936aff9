package fulfillment_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dealerhub-api/internal/application/apptest"
	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/fulfillment"
	"github.com/jhoicas/dealerhub-api/internal/application/inventory"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

type fixture struct {
	s      *apptest.Store
	uc     *fulfillment.UseCase
	d1, d2 *entity.Dealer
	p1, p2 *entity.Product
}

func setup(t *testing.T) fixture {
	t.Helper()
	s := apptest.NewStore()
	d1 := s.SeedDealer("moto-a", entity.DealerStatusActive, decimal.Zero)
	d2 := s.SeedDealer("moto-b", entity.DealerStatusActive, decimal.Zero)
	p1 := s.SeedProduct(d1.ID, "CASCO", apptest.Dec("100"), 0)
	p2 := s.SeedProduct(d2.ID, "GUANTE", apptest.Dec("20"), 0)
	s.SeedBatch(d1.ID, p1.ID, 3, apptest.Dec("60"), time.Now())
	s.SeedBatch(d2.ID, p2.ID, 10, apptest.Dec("8"), time.Now())
	stock := inventory.NewUseCase(apptest.TxRunner{S: s}, s.Products(), s.Batches(), s.MovementsRepo(), s.Dealers(), nil)
	uc := fulfillment.NewUseCase(apptest.TxRunner{S: s}, stock, s.Orders(), s.Products(), s.Dealers())
	return fixture{s: s, uc: uc, d1: d1, d2: d2, p1: p1, p2: p2}
}

func (f fixture) place(t *testing.T) *dto.OrderResponse {
	t.Helper()
	o, err := f.uc.PlaceOrder(context.Background(), "cliente", dto.PlaceOrderRequest{
		Items: []dto.OrderItemRequest{
			{ProductID: f.p1.ID, Quantity: 1},
			{ProductID: f.p2.ID, Quantity: 2},
		},
		ShippingAddress: "Calle 1 # 2-3",
	})
	require.NoError(t, err)
	return o
}

func subOf(o *dto.OrderResponse, dealerID string) dto.SubOrderResponse {
	for _, s := range o.SubOrders {
		if s.DealerID == dealerID {
			return s
		}
	}
	return dto.SubOrderResponse{}
}

func TestPlaceOrder_SeparaPorDealer(t *testing.T) {
	f := setup(t)
	o := f.place(t)

	assert.Equal(t, "PED-000001", o.Number)
	assert.Equal(t, "140.00", o.Total.StringFixed(2))
	assert.Equal(t, entity.OrderStatusPending, o.Status)
	require.Len(t, o.SubOrders, 2)
	assert.Equal(t, "100.00", subOf(o, f.d1.ID).Subtotal.StringFixed(2))
	assert.Equal(t, "40.00", subOf(o, f.d2.ID).Subtotal.StringFixed(2))
	assert.Equal(t, 2, f.s.Stock(f.p1.ID))
	assert.Equal(t, 8, f.s.Stock(f.p2.ID))
}

func TestPlaceOrder_SinStockRevierte(t *testing.T) {
	f := setup(t)
	_, err := f.uc.PlaceOrder(context.Background(), "cliente", dto.PlaceOrderRequest{
		Items: []dto.OrderItemRequest{
			{ProductID: f.p2.ID, Quantity: 1},
			{ProductID: f.p1.ID, Quantity: 4},
		},
		ShippingAddress: "Calle 1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, f.s.Stock(f.p2.ID))
	orders, err := f.uc.ListCustomerOrders(context.Background(), "cliente", 10)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestPlaceOrder_DealerSuspendido(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.s.Dealers().UpdateStatus(context.Background(), f.d2.ID, entity.DealerStatusSuspended))
	_, err := f.uc.PlaceOrder(context.Background(), "cliente", dto.PlaceOrderRequest{
		Items:           []dto.OrderItemRequest{{ProductID: f.p2.ID, Quantity: 1}},
		ShippingAddress: "Calle 1",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdvanceSubOrder_EstadoAgregado(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	o := f.place(t)
	s1, s2 := subOf(o, f.d1.ID), subOf(o, f.d2.ID)

	advance := func(dealerID string, sub dto.SubOrderResponse, tracking string) dto.SubOrderResponse {
		t.Helper()
		out, err := f.uc.AdvanceSubOrder(ctx, dealerID, sub.ID, dto.AdvanceSubOrderRequest{Version: sub.Version, TrackingNumber: tracking})
		require.NoError(t, err)
		return *out
	}

	s1 = advance(f.d1.ID, s1, "")
	s1 = advance(f.d1.ID, s1, "")
	_, err := f.uc.AdvanceSubOrder(ctx, f.d1.ID, s1.ID, dto.AdvanceSubOrderRequest{Version: s1.Version})
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed, "shipped exige número de guía")
	s1 = advance(f.d1.ID, s1, "GUIA-1")
	s1 = advance(f.d1.ID, s1, "")
	assert.Equal(t, entity.OrderStatusDelivered, s1.Status)
	assert.Equal(t, "GUIA-1", s1.TrackingNumber)

	got, err := f.uc.GetCustomerOrder(ctx, "cliente", o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, got.Status, "el pedido sigue en la etapa del sub-pedido más atrasado")

	for i := 0; i < 4; i++ {
		tracking := ""
		if i == 2 {
			tracking = "GUIA-2"
		}
		s2 = advance(f.d2.ID, s2, tracking)
	}
	got, err = f.uc.GetCustomerOrder(ctx, "cliente", o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDelivered, got.Status)
}

// pedidoConEspera simula una entrega hermana que confirma mientras esta tx espera el bloqueo del pedido.
type pedidoConEspera struct {
	repository.OrderRepository
	alBloquear func()
	llamadas   []string
}

func (r *pedidoConEspera) LockOrder(ctx context.Context, id string) error {
	r.llamadas = append(r.llamadas, "lock")
	if r.alBloquear != nil {
		f := r.alBloquear
		r.alBloquear = nil
		f()
	}
	return r.OrderRepository.LockOrder(ctx, id)
}

func (r *pedidoConEspera) SubOrdersOf(ctx context.Context, orderID string) ([]*entity.SubOrder, error) {
	r.llamadas = append(r.llamadas, "hermanos")
	return r.OrderRepository.SubOrdersOf(ctx, orderID)
}

type txPedidoConEspera struct {
	apptest.TxRunner
	repo *pedidoConEspera
}

func (t txPedidoConEspera) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	batchRepo repository.InventoryBatchRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return t.TxRunner.RunOrder(ctx, func(_ repository.OrderRepository, b repository.InventoryBatchRepository, m repository.StockMovementRepository) error {
		return fn(t.repo, b, m)
	})
}

func TestAdvanceSubOrder_EntregasConcurrentesCierranElPedido(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	o := f.place(t)
	s1, s2 := subOf(o, f.d1.ID), subOf(o, f.d2.ID)

	// ambos sub-pedidos quedan en shipped
	for i := 0; i < 3; i++ {
		tracking := ""
		if i == 2 {
			tracking = "GUIA"
		}
		out, err := f.uc.AdvanceSubOrder(ctx, f.d1.ID, s1.ID, dto.AdvanceSubOrderRequest{Version: s1.Version, TrackingNumber: tracking})
		require.NoError(t, err)
		s1 = *out
		out, err = f.uc.AdvanceSubOrder(ctx, f.d2.ID, s2.ID, dto.AdvanceSubOrderRequest{Version: s2.Version, TrackingNumber: tracking})
		require.NoError(t, err)
		s2 = *out
	}

	repo := &pedidoConEspera{OrderRepository: f.s.Orders()}
	repo.alBloquear = func() {
		_, err := f.uc.AdvanceSubOrder(ctx, f.d2.ID, s2.ID, dto.AdvanceSubOrderRequest{Version: s2.Version})
		require.NoError(t, err)
	}
	stock := inventory.NewUseCase(apptest.TxRunner{S: f.s}, f.s.Products(), f.s.Batches(), f.s.MovementsRepo(), f.s.Dealers(), nil)
	uc := fulfillment.NewUseCase(txPedidoConEspera{TxRunner: apptest.TxRunner{S: f.s}, repo: repo}, stock, f.s.Orders(), f.s.Products(), f.s.Dealers())

	out, err := uc.AdvanceSubOrder(ctx, f.d1.ID, s1.ID, dto.AdvanceSubOrderRequest{Version: s1.Version})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDelivered, out.Status)
	assert.Equal(t, []string{"lock", "hermanos"}, repo.llamadas, "los hermanos se leen después de bloquear el pedido")

	got, err := f.uc.GetCustomerOrder(ctx, "cliente", o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDelivered, got.Status, "todos los sub-pedidos entregados cierran el pedido")
}

func TestAdvanceSubOrder_OtroDealerYVersion(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	o := f.place(t)
	s1 := subOf(o, f.d1.ID)

	_, err := f.uc.AdvanceSubOrder(ctx, f.d2.ID, s1.ID, dto.AdvanceSubOrderRequest{Version: s1.Version})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.AdvanceSubOrder(ctx, f.d1.ID, s1.ID, dto.AdvanceSubOrderRequest{Version: s1.Version + 1})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAggregateStatus(t *testing.T) {
	assert.Equal(t, entity.OrderStatusPending, fulfillment.AggregateStatus(nil))
	assert.Equal(t, entity.OrderStatusConfirmed, fulfillment.AggregateStatus([]string{entity.OrderStatusShipped, entity.OrderStatusConfirmed}))
	assert.Equal(t, entity.OrderStatusDelivered, fulfillment.AggregateStatus([]string{entity.OrderStatusDelivered, entity.OrderStatusDelivered}))
}

func TestListDealerSubOrders(t *testing.T) {
	f := setup(t)
	f.place(t)
	out, err := f.uc.ListDealerSubOrders(context.Background(), f.d1.ID, entity.OrderStatusPending, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page.Total)

	_, err = f.uc.ListDealerSubOrders(context.Background(), f.d1.ID, "perdido", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
