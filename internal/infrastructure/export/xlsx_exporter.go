// Package export hojas de cálculo descargables.
package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/inventory"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

var _ inventory.OverviewExporter = (*XLSXExporter)(nil)

var overviewHeaders = []string{"SKU", "Producto", "Stock", "Mínimo", "Estado", "Costo", "Valor", "Lotes"}

var statusLabels = map[string]string{
	entity.StockStatusInStock:    "Disponible",
	entity.StockStatusLowStock:   "Stock bajo",
	entity.StockStatusOutOfStock: "Agotado",
}

// XLSXExporter implementa inventory.OverviewExporter con tealeg/xlsx.
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter { return &XLSXExporter{} }

// WriteOverview una hoja "Inventario": título, encabezados, una fila por producto y el total valorizado.
func (XLSXExporter) WriteOverview(w io.Writer, dealerName string, rows []dto.StockOverviewItem) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Inventario")
	if err != nil {
		return fmt.Errorf("xlsx: crear hoja: %w", err)
	}

	sheet.AddRow().AddCell().SetString("Inventario " + dealerName)

	header := sheet.AddRow()
	for _, h := range overviewHeaders {
		cell := header.AddCell()
		cell.SetString(h)
		cell.GetStyle().Font.Bold = true
	}

	total := decimal.Zero
	for _, it := range rows {
		r := sheet.AddRow()
		r.AddCell().SetString(it.SKU)
		r.AddCell().SetString(it.Name)
		r.AddCell().SetInt(it.Stock)
		r.AddCell().SetInt(it.MinStock)
		r.AddCell().SetString(statusLabels[it.Status])
		r.AddCell().SetFloat(it.Cost.InexactFloat64())
		r.AddCell().SetFloat(it.Value.InexactFloat64())
		r.AddCell().SetInt(it.BatchCount)
		total = total.Add(it.Value)
	}

	totals := sheet.AddRow()
	for i := 0; i < 5; i++ {
		totals.AddCell()
	}
	totals.AddCell().SetString("Total")
	totals.AddCell().SetFloat(total.InexactFloat64())

	if err := file.Write(w); err != nil {
		return fmt.Errorf("xlsx: escribir: %w", err)
	}
	return nil
}
