package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/usecase"
)

// DealerHandler registro de dealers, ajustes de la tienda, vitrina pública y administración.
type DealerHandler struct {
	uc *usecase.DealerUseCase
}

func NewDealerHandler(uc *usecase.DealerUseCase) *DealerHandler {
	return &DealerHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar dealer (queda pendiente de aprobación)
// @Tags         dealers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterDealerRequest  true  "Datos del dealer y su owner"
// @Success      201   {object}  dto.RegisterDealerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/dealers/register [post]
func (h *DealerHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterDealerRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Register(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetSettings godoc
// @Summary      Ajustes de la tienda
// @Tags         dealers
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DealerResponse
// @Router       /api/dealer/settings [get]
func (h *DealerHandler) GetSettings(c *fiber.Ctx) error {
	out, err := h.uc.GetSettings(c.Context(), GetDealerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateSettings godoc
// @Summary      Actualizar ajustes de la tienda
// @Tags         dealers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateDealerSettingsRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.DealerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/dealer/settings [patch]
func (h *DealerHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.UpdateDealerSettingsRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateSettings(c.Context(), GetDealerID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Storefront godoc
// @Summary      Vitrina pública del dealer
// @Tags         dealers
// @Produce      json
// @Param        slug  path  string  true  "Slug del dealer"
// @Success      200   {object}  dto.StorefrontResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/storefront/{slug} [get]
func (h *DealerHandler) Storefront(c *fiber.Ctx) error {
	out, err := h.uc.Storefront(c.Context(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar dealers (superadmin)
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending, active, suspended, rejected"
// @Param        search  query  string  false  "Nombre, slug o email"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.DealerListResponse
// @Router       /api/admin/dealers [get]
func (h *DealerHandler) List(c *fiber.Ctx) error {
	var in dto.DealerListRequest
	if err := parseQuery(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetStatus godoc
// @Summary      Aprobar, suspender o rechazar un dealer
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del dealer"
// @Param        body  body  dto.UpdateDealerStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.DealerResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/dealers/{id}/status [patch]
func (h *DealerHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.UpdateDealerStatusRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SetStatus(c.Context(), id, in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
