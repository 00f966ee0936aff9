package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/workshop"
)

// JobCardHandler órdenes de taller.
type JobCardHandler struct {
	uc *workshop.UseCase
}

func NewJobCardHandler(uc *workshop.UseCase) *JobCardHandler {
	return &JobCardHandler{uc: uc}
}

// Create godoc
// @Summary      Recibir vehículo (nueva orden de taller)
// @Tags         job-cards
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateJobCardRequest  true  "Cliente, vehículo y motivo"
// @Success      201   {object}  dto.JobCardResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/job-cards [post]
func (h *JobCardHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateJobCardRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.Context(), GetDealerID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Orden de taller con su historial
// @Tags         job-cards
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.JobCardResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/job-cards/{id} [get]
func (h *JobCardHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Get(c.Context(), GetDealerID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Tablero de órdenes de taller
// @Tags         job-cards
// @Security     Bearer
// @Produce      json
// @Param        status         query  string  false  "Etapa"
// @Param        technician_id  query  string  false  "Técnico"
// @Param        search         query  string  false  "Placa, cliente o número"
// @Param        limit          query  int     false  "Límite"  default(20)
// @Param        offset         query  int     false  "Offset"  default(0)
// @Success      200            {object}  dto.JobCardListResponse
// @Router       /api/job-cards [get]
func (h *JobCardHandler) List(c *fiber.Ctx) error {
	var in dto.JobCardListRequest
	if err := parseQuery(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.Context(), GetDealerID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar datos de la orden (no el estado)
// @Tags         job-cards
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.UpdateJobCardRequest  true  "Campos y versión leída"
// @Success      200   {object}  dto.JobCardResponse
// @Failure      409   {object}  dto.ErrorResponse  "versión desactualizada o entregada"
// @Router       /api/job-cards/{id} [patch]
func (h *JobCardHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateJobCardRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.Context(), GetDealerID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Advance godoc
// @Summary      Avanzar a la siguiente etapa
// @Tags         job-cards
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.AdvanceRequest  true  "Versión leída y nota"
// @Success      200   {object}  dto.JobCardResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/job-cards/{id}/advance [post]
func (h *JobCardHandler) Advance(c *fiber.Ctx) error {
	var in dto.AdvanceRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Advance(c.Context(), GetDealerID(c), GetUserID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
