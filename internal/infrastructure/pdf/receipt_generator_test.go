package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

func TestFormatMoney_SeparadorDeMiles(t *testing.T) {
	g := NewReceiptGenerator()
	assert.Equal(t, "$1.234.567", g.formatMoney(decimal.RequireFromString("1234566.6")))
	assert.Equal(t, "$950", g.formatMoney(decimal.NewFromInt(950)))
}

func TestGenerate_DevuelvePDF(t *testing.T) {
	dealer := &entity.Dealer{Name: "Motos Ñandú", Slug: "motos-nandu", TaxID: "900.123.456-7", TaxRate: decimal.RequireFromString("0.19")}
	sale := &entity.Sale{
		Number: "V-000042", PaymentMethod: entity.PaymentCash, Status: entity.SaleStatusCompleted,
		Subtotal: decimal.NewFromInt(100000), Discount: decimal.Zero, TaxTotal: decimal.NewFromInt(19000),
		Total: decimal.NewFromInt(119000), AmountPaid: decimal.NewFromInt(120000), ChangeDue: decimal.NewFromInt(1000),
		CreatedAt: time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC),
	}
	items := []*entity.SaleItem{{
		Description: "Casco integral", Quantity: 2,
		UnitPrice: decimal.NewFromInt(50000), LineTotal: decimal.NewFromInt(100000),
	}}

	out, err := NewReceiptGenerator().Generate(dealer, sale, items)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un documento PDF")
}
