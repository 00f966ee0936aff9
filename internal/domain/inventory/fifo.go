package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

// Allocation cantidad tomada de un lote.
type Allocation struct {
	BatchID  string
	Quantity int
	UnitCost decimal.Decimal
}

// AllocateFIFO reparte qty entre los lotes en el orden recibido (el llamador los entrega
// ordenados del más antiguo al más nuevo). No modifica los lotes.
// Devuelve ErrInvalidInput si qty <= 0 y ErrInsufficientStock si no alcanza.
func AllocateFIFO(batches []*entity.InventoryBatch, qty int) ([]Allocation, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	pending := qty
	var out []Allocation
	for _, b := range batches {
		if pending == 0 {
			break
		}
		if b.QuantityRemaining <= 0 {
			continue
		}
		take := b.QuantityRemaining
		if take > pending {
			take = pending
		}
		out = append(out, Allocation{BatchID: b.ID, Quantity: take, UnitCost: b.UnitCost})
		pending -= take
	}
	if pending > 0 {
		return nil, domain.ErrInsufficientStock
	}
	return out, nil
}

// AllocatedUnitCost costo unitario ponderado de un conjunto de asignaciones.
func AllocatedUnitCost(allocs []Allocation) decimal.Decimal {
	var units int
	total := decimal.Zero
	for _, a := range allocs {
		units += a.Quantity
		total = total.Add(a.UnitCost.Mul(decimal.NewFromInt(int64(a.Quantity))))
	}
	if units == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(units))).Round(4)
}
