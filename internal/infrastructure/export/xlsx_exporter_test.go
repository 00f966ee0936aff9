package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

func TestWriteOverview_HojaLegible(t *testing.T) {
	rows := []dto.StockOverviewItem{
		{SKU: "CAS-01", Name: "Casco", Stock: 3, MinStock: 5, Status: entity.StockStatusLowStock,
			Cost: decimal.NewFromInt(100), Value: decimal.NewFromInt(300), BatchCount: 1},
		{SKU: "LLA-02", Name: "Llanta", Stock: 0, MinStock: 2, Status: entity.StockStatusOutOfStock,
			Cost: decimal.NewFromInt(80), Value: decimal.Zero},
	}

	var buf bytes.Buffer
	require.NoError(t, NewXLSXExporter().WriteOverview(&buf, "Motos Ñandú", rows))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	assert.Equal(t, "Inventario", sheet.Name)

	// título + encabezado + 2 productos + total
	require.Len(t, sheet.Rows, 5)
	assert.Equal(t, "Inventario Motos Ñandú", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "SKU", sheet.Rows[1].Cells[0].Value)
	assert.Equal(t, "CAS-01", sheet.Rows[2].Cells[0].Value)
	assert.Equal(t, "Stock bajo", sheet.Rows[2].Cells[4].Value)
	assert.Equal(t, "Agotado", sheet.Rows[3].Cells[4].Value)
	assert.Equal(t, "Total", sheet.Rows[4].Cells[5].Value)
	assert.Equal(t, "300", sheet.Rows[4].Cells[6].Value)
}
