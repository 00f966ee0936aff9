package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/inventory"
)

func batches() []*entity.InventoryBatch {
	return []*entity.InventoryBatch{
		{ID: "b1", QuantityRemaining: 3, UnitCost: decimal.NewFromInt(10)},
		{ID: "b2", QuantityRemaining: 0, UnitCost: decimal.NewFromInt(99)},
		{ID: "b3", QuantityRemaining: 5, UnitCost: decimal.NewFromInt(20)},
	}
}

func TestAllocateFIFO_LoteMasAntiguoPrimero(t *testing.T) {
	allocs, err := inventory.AllocateFIFO(batches(), 6)
	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.Equal(t, "b1", allocs[0].BatchID)
	assert.Equal(t, 3, allocs[0].Quantity)
	assert.Equal(t, "b3", allocs[1].BatchID, "los lotes vacíos se saltan")
	assert.Equal(t, 3, allocs[1].Quantity)

	// (3*10 + 3*20) / 6 = 15
	assert.True(t, decimal.NewFromInt(15).Equal(inventory.AllocatedUnitCost(allocs)))
}

func TestAllocateFIFO_UnSoloLoteAlcanza(t *testing.T) {
	allocs, err := inventory.AllocateFIFO(batches(), 2)
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, 2, allocs[0].Quantity)
}

func TestAllocateFIFO_StockInsuficiente(t *testing.T) {
	_, err := inventory.AllocateFIFO(batches(), 9)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestAllocateFIFO_CantidadInvalida(t *testing.T) {
	_, err := inventory.AllocateFIFO(batches(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAllocateFIFO_NoModificaLotes(t *testing.T) {
	bs := batches()
	_, err := inventory.AllocateFIFO(bs, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, bs[0].QuantityRemaining)
}

func TestWeightedAverageCost(t *testing.T) {
	// (10*100 + 10*200) / 20 = 150
	got := inventory.WeightedAverageCost(10, decimal.NewFromInt(100), 10, decimal.NewFromInt(200))
	assert.True(t, decimal.NewFromInt(150).Equal(got), got.String())

	// stock negativo no aporta
	got = inventory.WeightedAverageCost(-4, decimal.NewFromInt(100), 2, decimal.NewFromInt(50))
	assert.True(t, decimal.NewFromInt(50).Equal(got), got.String())

	assert.True(t, inventory.WeightedAverageCost(0, decimal.Zero, 0, decimal.Zero).IsZero())
}

func TestAllocatedUnitCost_SinAsignaciones(t *testing.T) {
	assert.True(t, inventory.AllocatedUnitCost(nil).IsZero())
}
