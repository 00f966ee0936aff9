package pos_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dealerhub-api/internal/application/pos"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeTotals(t *testing.T) {
	paid := dec("150000")
	lines := []pos.Line{
		{Quantity: 2, UnitPrice: dec("25000")},
		{Quantity: 1, UnitPrice: dec("60000")},
	}
	tot, err := pos.ComputeTotals(lines, dec("10000"), dec("0.19"), entity.PaymentCash, &paid)
	require.NoError(t, err)

	assert.Equal(t, "110000.00", tot.Subtotal.StringFixed(2))
	assert.Equal(t, "19000.00", tot.TaxTotal.StringFixed(2), "impuesto sobre subtotal menos descuento")
	assert.Equal(t, "119000.00", tot.Total.StringFixed(2))
	assert.Equal(t, "31000.00", tot.ChangeDue.StringFixed(2))
}

func TestComputeTotals_TarjetaCobraExacto(t *testing.T) {
	paid := dec("1")
	tot, err := pos.ComputeTotals([]pos.Line{{Quantity: 3, UnitPrice: dec("9.99")}}, decimal.Zero, decimal.Zero, entity.PaymentCard, &paid)
	require.NoError(t, err)
	assert.True(t, tot.AmountPaid.Equal(tot.Total), "con tarjeta se ignora el monto recibido")
	assert.True(t, tot.ChangeDue.IsZero())
	assert.Equal(t, "29.97", tot.Total.StringFixed(2))
}

func TestComputeTotals_Errores(t *testing.T) {
	short := dec("5")
	cases := []struct {
		name     string
		lines    []pos.Line
		discount decimal.Decimal
		method   string
		paid     *decimal.Decimal
	}{
		{"sin líneas", nil, decimal.Zero, entity.PaymentCard, nil},
		{"cantidad cero", []pos.Line{{Quantity: 0, UnitPrice: dec("1")}}, decimal.Zero, entity.PaymentCard, nil},
		{"descuento mayor al subtotal", []pos.Line{{Quantity: 1, UnitPrice: dec("10")}}, dec("11"), entity.PaymentCard, nil},
		{"efectivo sin monto", []pos.Line{{Quantity: 1, UnitPrice: dec("10")}}, decimal.Zero, entity.PaymentCash, nil},
		{"efectivo insuficiente", []pos.Line{{Quantity: 1, UnitPrice: dec("10")}}, decimal.Zero, entity.PaymentCash, &short},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pos.ComputeTotals(tc.lines, tc.discount, decimal.Zero, tc.method, tc.paid)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
