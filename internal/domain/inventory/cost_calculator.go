package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo promedio ponderado tras recibir un lote (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Un stock actual negativo o cero no aporta al promedio.
func WeightedAverageCost(stock int, cost decimal.Decimal, qtyIn int, unitCost decimal.Decimal) decimal.Decimal {
	if stock < 0 {
		stock = 0
	}
	total := stock + qtyIn
	if total <= 0 {
		return decimal.Zero
	}
	num := decimal.NewFromInt(int64(stock)).Mul(cost).
		Add(decimal.NewFromInt(int64(qtyIn)).Mul(unitCost))
	return num.Div(decimal.NewFromInt(int64(total))).Round(4)
}
