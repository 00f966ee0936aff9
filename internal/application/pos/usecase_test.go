package pos_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dealerhub-api/internal/application/apptest"
	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/inventory"
	"github.com/jhoicas/dealerhub-api/internal/application/pos"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

type fakeReceipts struct{}

func (fakeReceipts) Generate(_ *entity.Dealer, sale *entity.Sale, _ []*entity.SaleItem) ([]byte, error) {
	return []byte("%PDF " + sale.Number), nil
}

type fixture struct {
	s      *apptest.Store
	uc     *pos.UseCase
	dealer *entity.Dealer
	a, b   *entity.Product
}

func setup(t *testing.T) fixture {
	t.Helper()
	s := apptest.NewStore()
	d := s.SeedDealer("moto-a", entity.DealerStatusActive, dec("0.19"))
	a := s.SeedProduct(d.ID, "ACE-1", dec("20"), 1)
	b := s.SeedProduct(d.ID, "FIL-1", dec("10"), 1)
	t0 := time.Now().Add(-time.Hour)
	s.SeedBatch(d.ID, a.ID, 2, dec("8"), t0)
	s.SeedBatch(d.ID, a.ID, 5, dec("12"), t0.Add(time.Minute))
	s.SeedBatch(d.ID, b.ID, 1, dec("4"), t0)
	stock := inventory.NewUseCase(apptest.TxRunner{S: s}, s.Products(), s.Batches(), s.MovementsRepo(), s.Dealers(), nil)
	uc := pos.NewUseCase(apptest.TxRunner{S: s}, stock, s.Sales(), s.Products(), s.Dealers(), fakeReceipts{})
	return fixture{s: s, uc: uc, dealer: d, a: a, b: b}
}

func TestCheckout_DescuentaFIFOYCalculaCosto(t *testing.T) {
	f := setup(t)
	out, err := f.uc.Checkout(context.Background(), f.dealer.ID, "cajero", dto.CheckoutRequest{
		Items:         []dto.CartItemRequest{{ProductID: f.a.ID, Quantity: 3}},
		PaymentMethod: entity.PaymentCard,
	})
	require.NoError(t, err)

	assert.Equal(t, "V-000001", out.Number)
	assert.Equal(t, "60.00", out.Subtotal.StringFixed(2))
	assert.Equal(t, "11.40", out.TaxTotal.StringFixed(2))
	assert.Equal(t, "71.40", out.Total.StringFixed(2))
	require.Len(t, out.Items, 1)
	// 2 @ 8 + 1 @ 12 = 28 / 3
	assert.Equal(t, "9.3333", out.Items[0].UnitCost.StringFixed(4))
	assert.Equal(t, 4, f.s.Stock(f.a.ID))
	assert.Len(t, f.s.Movements(), 2, "un movimiento OUT por lote consumido")
}

func TestCheckout_StockInsuficienteRevierteTodo(t *testing.T) {
	f := setup(t)
	_, err := f.uc.Checkout(context.Background(), f.dealer.ID, "cajero", dto.CheckoutRequest{
		Items: []dto.CartItemRequest{
			{ProductID: f.a.ID, Quantity: 2},
			{ProductID: f.b.ID, Quantity: 5},
		},
		PaymentMethod: entity.PaymentTransfer,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 7, f.s.Stock(f.a.ID), "la primera línea no debe quedar descontada")
	assert.Empty(t, f.s.Movements())
	list, err := f.uc.List(context.Background(), f.dealer.ID, dto.SaleListRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	// la numeración también se revierte
	out, err := f.uc.Checkout(context.Background(), f.dealer.ID, "cajero", dto.CheckoutRequest{
		Items:         []dto.CartItemRequest{{ProductID: f.b.ID, Quantity: 1}},
		PaymentMethod: entity.PaymentCard,
	})
	require.NoError(t, err)
	assert.Equal(t, "V-000001", out.Number)
}

func TestCheckout_DealerNoActivo(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.s.Dealers().UpdateStatus(context.Background(), f.dealer.ID, entity.DealerStatusSuspended))
	_, err := f.uc.Checkout(context.Background(), f.dealer.ID, "cajero", dto.CheckoutRequest{
		Items:         []dto.CartItemRequest{{ProductID: f.a.ID, Quantity: 1}},
		PaymentMethod: entity.PaymentCard,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCheckout_ProductoDeOtroDealer(t *testing.T) {
	f := setup(t)
	other := f.s.SeedDealer("otro", entity.DealerStatusActive, dec("0"))
	p := f.s.SeedProduct(other.ID, "Z", dec("1"), 0)
	_, err := f.uc.Checkout(context.Background(), f.dealer.ID, "cajero", dto.CheckoutRequest{
		Items:         []dto.CartItemRequest{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: entity.PaymentCard,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVoid_DevuelveStockUnaSolaVez(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	paid := dec("100")
	sale, err := f.uc.Checkout(ctx, f.dealer.ID, "cajero", dto.CheckoutRequest{
		Items:         []dto.CartItemRequest{{ProductID: f.a.ID, Quantity: 2}},
		PaymentMethod: entity.PaymentCash,
		AmountPaid:    &paid,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, f.s.Stock(f.a.ID))

	voided, err := f.uc.Void(ctx, f.dealer.ID, "gerente", sale.ID, dto.VoidSaleRequest{Reason: "error de cobro"})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusVoided, voided.Status)
	assert.Equal(t, 7, f.s.Stock(f.a.ID))

	_, err = f.uc.Void(ctx, f.dealer.ID, "gerente", sale.ID, dto.VoidSaleRequest{Reason: "otra vez"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 7, f.s.Stock(f.a.ID))
}

func TestList_ResumenSoloVentasCompletadas(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	s1, err := f.uc.Checkout(ctx, f.dealer.ID, "c", dto.CheckoutRequest{Items: []dto.CartItemRequest{{ProductID: f.a.ID, Quantity: 1}}, PaymentMethod: entity.PaymentCard})
	require.NoError(t, err)
	_, err = f.uc.Checkout(ctx, f.dealer.ID, "c", dto.CheckoutRequest{Items: []dto.CartItemRequest{{ProductID: f.b.ID, Quantity: 1}}, PaymentMethod: entity.PaymentTransfer})
	require.NoError(t, err)
	_, err = f.uc.Void(ctx, f.dealer.ID, "g", s1.ID, dto.VoidSaleRequest{Reason: "prueba"})
	require.NoError(t, err)

	out, err := f.uc.List(ctx, f.dealer.ID, dto.SaleListRequest{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 1, out.Summary.Count)
	assert.Equal(t, "11.90", out.Summary.Gross.StringFixed(2))
	assert.Contains(t, out.Summary.ByPayment, entity.PaymentTransfer)

	_, err = f.uc.List(ctx, f.dealer.ID, dto.SaleListRequest{From: "2024-02-10", To: "2024-02-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReceipt(t *testing.T) {
	f := setup(t)
	sale, err := f.uc.Checkout(context.Background(), f.dealer.ID, "c", dto.CheckoutRequest{Items: []dto.CartItemRequest{{ProductID: f.b.ID, Quantity: 1}}, PaymentMethod: entity.PaymentCard})
	require.NoError(t, err)
	pdf, name, err := f.uc.Receipt(context.Background(), f.dealer.ID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "V-000001.pdf", name)
	assert.Contains(t, string(pdf), "V-000001")
}
