package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dealerhub-api/internal/application/apptest"
	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/usecase"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

func TestProduct_CreateSKUUnicoPorDealer(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	d1 := s.SeedDealer("uno", entity.DealerStatusActive, apptest.Dec("0"))
	d2 := s.SeedDealer("dos", entity.DealerStatusActive, apptest.Dec("0"))
	uc := usecase.NewProductUseCase(s.Products(), s.Categories())

	req := dto.CreateProductRequest{SKU: " CAS-01 ", Name: "Casco", Price: apptest.Dec("250000"), MinStock: 2}
	p, err := uc.Create(ctx, d1.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "CAS-01", p.SKU)
	assert.True(t, p.Cost.IsZero(), "el costo inicia en cero")
	assert.Equal(t, entity.StockStatusOutOfStock, p.StockStatus)

	_, err = uc.Create(ctx, d1.ID, req)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(ctx, d2.ID, req)
	assert.NoError(t, err, "otro dealer puede repetir el SKU")

	req.SKU = "NEG"
	req.Price = apptest.Dec("-1")
	_, err = uc.Create(ctx, d1.ID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProduct_AislamientoEntreDealers(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	d1 := s.SeedDealer("uno", entity.DealerStatusActive, apptest.Dec("0"))
	d2 := s.SeedDealer("dos", entity.DealerStatusActive, apptest.Dec("0"))
	p := s.SeedProduct(d1.ID, "A", apptest.Dec("10"), 0)
	uc := usecase.NewProductUseCase(s.Products(), s.Categories())

	_, err := uc.Get(ctx, d2.ID, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, d2.ID, p.ID), domain.ErrNotFound)
	_, err = uc.AddVariant(ctx, d2.ID, p.ID, dto.VariantRequest{SKU: "A-M", Name: "M", Price: apptest.Dec("10")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct_UpdateNoTocaCostoYDeleteEsLogico(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	d := s.SeedDealer("uno", entity.DealerStatusActive, apptest.Dec("0"))
	p := s.SeedProduct(d.ID, "A", apptest.Dec("10"), 0)
	require.NoError(t, s.Products().UpdateCost(ctx, p.ID, apptest.Dec("6")))
	uc := usecase.NewProductUseCase(s.Products(), s.Categories())

	price := apptest.Dec("12")
	name := "Aceite 20W50"
	out, err := uc.Update(ctx, d.ID, p.ID, dto.UpdateProductRequest{Price: &price, Name: &name})
	require.NoError(t, err)
	assert.True(t, price.Equal(out.Price))

	got, err := uc.Get(ctx, d.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, apptest.Dec("6").Equal(got.Cost), "el costo solo cambia con lotes")

	require.NoError(t, uc.Delete(ctx, d.ID, p.ID))
	got, err = uc.Get(ctx, d.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestProduct_ListFiltrosYResumen(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	d := s.SeedDealer("uno", entity.DealerStatusActive, apptest.Dec("0"))
	a := s.SeedProduct(d.ID, "A", apptest.Dec("10"), 5)
	b := s.SeedProduct(d.ID, "B", apptest.Dec("20"), 5)
	s.SeedProduct(d.ID, "C", apptest.Dec("30"), 5)
	s.SeedBatch(d.ID, a.ID, 3, apptest.Dec("4"), time.Now())
	s.SeedBatch(d.ID, b.ID, 10, apptest.Dec("8"), time.Now())
	require.NoError(t, s.Products().UpdateCost(ctx, a.ID, apptest.Dec("4")))
	require.NoError(t, s.Products().UpdateCost(ctx, b.ID, apptest.Dec("8")))
	uc := usecase.NewProductUseCase(s.Products(), s.Categories())

	all, err := uc.List(ctx, d.ID, dto.ProductListRequest{SortBy: "price", SortDesc: true})
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
	assert.Equal(t, "C", all.Items[0].SKU)
	assert.Equal(t, 3, all.Summary.TotalProducts)
	assert.Equal(t, 13, all.Summary.TotalUnits)
	assert.True(t, apptest.Dec("92").Equal(all.Summary.InventoryValue))
	assert.Equal(t, 1, all.Summary.LowStock)
	assert.Equal(t, 1, all.Summary.OutOfStock)

	low, err := uc.List(ctx, d.ID, dto.ProductListRequest{Status: entity.StockStatusLowStock})
	require.NoError(t, err)
	require.Len(t, low.Items, 1)
	assert.Equal(t, "A", low.Items[0].SKU)
	assert.Equal(t, 1, low.Page.Total)

	_, err = uc.List(ctx, d.ID, dto.ProductListRequest{Status: "agotado"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProduct_Variantes(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	d := s.SeedDealer("uno", entity.DealerStatusActive, apptest.Dec("0"))
	p := s.SeedProduct(d.ID, "CAS", apptest.Dec("10"), 0)
	other := s.SeedProduct(d.ID, "OTRO", apptest.Dec("10"), 0)
	uc := usecase.NewProductUseCase(s.Products(), s.Categories())

	v, err := uc.AddVariant(ctx, d.ID, p.ID, dto.VariantRequest{SKU: "CAS-M", Name: "Talla M", Price: apptest.Dec("11")})
	require.NoError(t, err)
	assert.True(t, v.IsActive)
	_, err = uc.AddVariant(ctx, d.ID, p.ID, dto.VariantRequest{SKU: "CAS-M", Name: "Repetida", Price: apptest.Dec("11")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.UpdateVariant(ctx, d.ID, other.ID, v.ID, dto.VariantRequest{SKU: "CAS-M", Name: "x", Price: apptest.Dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound, "la variante es de otro producto")

	got, err := uc.Get(ctx, d.ID, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Variants, 1)

	require.NoError(t, uc.DeleteVariant(ctx, d.ID, p.ID, v.ID))
	got, err = uc.Get(ctx, d.ID, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Variants)
}
