package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dealerhub-api/internal/application/apptest"
	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/fulfillment"
	"github.com/jhoicas/dealerhub-api/internal/application/inventory"
	"github.com/jhoicas/dealerhub-api/internal/application/usecase"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

func newPortfolio(s *apptest.Store) *usecase.PortfolioUseCase {
	stock := inventory.NewUseCase(apptest.TxRunner{S: s}, s.Products(), s.Batches(), s.MovementsRepo(), s.Dealers(), nil)
	orders := fulfillment.NewUseCase(apptest.TxRunner{S: s}, stock, s.Orders(), s.Products(), s.Dealers())
	return usecase.NewPortfolioUseCase(s.Users(), s.Orders(), s.Dealers(), s.Products(), s.Sales(), orders)
}

func TestPortfolio_Cliente(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	d := s.SeedDealer("tienda", entity.DealerStatusActive, apptest.Dec("0"))
	p := s.SeedProduct(d.ID, "CASCO", apptest.Dec("100"), 0)
	s.SeedBatch(d.ID, p.ID, 10, apptest.Dec("60"), time.Now())
	c := s.SeedUser("", entity.RoleCustomer, "c@mail.co", "")
	uc := newPortfolio(s)

	empty, err := uc.Portfolio(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.OrderCount)
	assert.NotNil(t, empty.RecentOrders)
	assert.Nil(t, empty.Dealer)

	stock := inventory.NewUseCase(apptest.TxRunner{S: s}, s.Products(), s.Batches(), s.MovementsRepo(), s.Dealers(), nil)
	orders := fulfillment.NewUseCase(apptest.TxRunner{S: s}, stock, s.Orders(), s.Products(), s.Dealers())
	for i := 0; i < 6; i++ {
		_, err := orders.PlaceOrder(ctx, c.ID, dto.PlaceOrderRequest{
			Items:           []dto.OrderItemRequest{{ProductID: p.ID, Quantity: 1}},
			ShippingAddress: "Calle 1",
		})
		require.NoError(t, err)
	}

	out, err := uc.Portfolio(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, out.OrderCount)
	assert.True(t, apptest.Dec("600").Equal(out.TotalSpent))
	assert.Len(t, out.RecentOrders, 5, "solo los pedidos más recientes")
}

func TestPortfolio_PersonalVeResumenDeSuTienda(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	d := s.SeedDealer("tienda", entity.DealerStatusActive, apptest.Dec("0"))
	s.SeedProduct(d.ID, "A", apptest.Dec("10"), 0)
	off := s.SeedProduct(d.ID, "B", apptest.Dec("10"), 0)
	require.NoError(t, s.Products().SetActive(ctx, off.ID, false))
	owner := s.SeedUser(d.ID, entity.RoleOwner, "o@tienda.co", "")
	now := time.Now()
	for _, st := range []string{entity.SaleStatusCompleted, entity.SaleStatusVoided} {
		require.NoError(t, s.Sales().Create(ctx, &entity.Sale{
			ID: uuid.New().String(), DealerID: d.ID, Number: st, PaymentMethod: entity.PaymentCash,
			Total: apptest.Dec("50"), TaxTotal: apptest.Dec("0"), Status: st, CreatedAt: now, UpdatedAt: now,
		}))
	}

	out, err := newPortfolio(s).Portfolio(ctx, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, out.Dealer)
	assert.Equal(t, "tienda", out.Dealer.Slug)
	assert.Equal(t, 1, out.Dealer.ActiveProducts)
	assert.True(t, apptest.Dec("50").Equal(out.Dealer.MonthSales), "las anuladas no suman")

	_, err = newPortfolio(s).Portfolio(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
