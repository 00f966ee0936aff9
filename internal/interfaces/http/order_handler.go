package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/fulfillment"
)

// OrderHandler pedidos del marketplace: checkout del cliente y despacho por dealer.
type OrderHandler struct {
	uc *fulfillment.UseCase
}

func NewOrderHandler(uc *fulfillment.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// PlaceOrder godoc
// @Summary      Crear pedido (se reparte en sub-pedidos por dealer)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlaceOrderRequest  true  "Líneas y dirección de envío"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Router       /api/orders [post]
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	var in dto.PlaceOrderRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.PlaceOrder(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMine godoc
// @Summary      Mis pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(20)
// @Success      200    {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.uc.ListCustomerOrders(c.Context(), GetUserID(c), pageQuery(c).Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetMine godoc
// @Summary      Detalle de un pedido propio
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetMine(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.GetCustomerOrder(c.Context(), GetUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListSubOrders godoc
// @Summary      Sub-pedidos del dealer
// @Tags         fulfillment
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending, confirmed, processing, shipped, delivered"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.SubOrderListResponse
// @Router       /api/fulfillment/sub-orders [get]
func (h *OrderHandler) ListSubOrders(c *fiber.Ctx) error {
	out, err := h.uc.ListDealerSubOrders(c.Context(), GetDealerID(c), c.Query("status"), pageQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetSubOrder godoc
// @Summary      Detalle de un sub-pedido
// @Tags         fulfillment
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del sub-pedido"
// @Success      200  {object}  dto.SubOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/fulfillment/sub-orders/{id} [get]
func (h *OrderHandler) GetSubOrder(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.GetSubOrder(c.Context(), GetDealerID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AdvanceSubOrder godoc
// @Summary      Avanzar el despacho del sub-pedido
// @Description  Para pasar a shipped se requiere tracking_number (puede enviarse en la misma llamada).
// @Tags         fulfillment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del sub-pedido"
// @Param        body  body  dto.AdvanceSubOrderRequest  true  "Versión leída, guía y transportadora"
// @Success      200   {object}  dto.SubOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/fulfillment/sub-orders/{id}/advance [post]
func (h *OrderHandler) AdvanceSubOrder(c *fiber.Ctx) error {
	var in dto.AdvanceSubOrderRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.AdvanceSubOrder(c.Context(), GetDealerID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
