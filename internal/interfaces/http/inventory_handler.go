package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/inventory"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InventoryHandler maneja lotes, ajustes, kardex y resumen de stock.
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// ReceiveBatch godoc
// @Summary      Registrar entrada de mercancía (lote)
// @Description  Crea el lote, recalcula el costo promedio ponderado y registra el movimiento IN en una transacción.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveBatchRequest  true  "product_id, quantity, unit_cost"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/batches [post]
func (h *InventoryHandler) ReceiveBatch(c *fiber.Ctx) error {
	var in dto.ReceiveBatchRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ReceiveBatch(c.Context(), GetDealerID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  Delta positivo crea un lote de ajuste; negativo consume FIFO.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, delta, notes"
// @Success      204
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Adjust(c.Context(), GetDealerID(c), GetUserID(c), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Overview godoc
// @Summary      Resumen de stock por producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        category_id  query  string  false  "Categoría"
// @Param        search       query  string  false  "Nombre, SKU o marca"
// @Param        status       query  string  false  "in_stock, low_stock, out_of_stock"
// @Success      200          {object}  dto.StockOverviewResponse
// @Router       /api/inventory/overview [get]
func (h *InventoryHandler) Overview(c *fiber.Ctx) error {
	var in dto.ProductListRequest
	if err := parseQuery(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Overview(c.Context(), GetDealerID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportOverview godoc
// @Summary      Exportar resumen de stock a Excel
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/inventory/overview/export [get]
func (h *InventoryHandler) ExportOverview(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.uc.ExportOverview(c.Context(), GetDealerID(c), &buf); err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventario.xlsx"`)
	return c.Send(buf.Bytes())
}

// ListBatches godoc
// @Summary      Lotes de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}  dto.BatchResponse
// @Router       /api/inventory/products/{id}/batches [get]
func (h *InventoryHandler) ListBatches(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListBatches(c.Context(), GetDealerID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Kardex de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.MovementListResponse
// @Router       /api/inventory/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListMovements(c.Context(), GetDealerID(c), id, pageQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
