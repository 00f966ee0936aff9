package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/usecase"
)

// TeamHandler equipo del dealer y sus permisos.
type TeamHandler struct {
	uc *usecase.TeamUseCase
}

func NewTeamHandler(uc *usecase.TeamUseCase) *TeamHandler {
	return &TeamHandler{uc: uc}
}

// Catalogue godoc
// @Summary      Catálogo de permisos
// @Tags         team
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PermissionResponse
// @Router       /api/team/permissions [get]
func (h *TeamHandler) Catalogue(c *fiber.Ctx) error {
	out, err := h.uc.Catalogue(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Miembros del equipo con sus permisos
// @Tags         team
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TeamMemberResponse
// @Router       /api/team [get]
func (h *TeamHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListTeam(c.Context(), GetDealerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Invite godoc
// @Summary      Dar de alta un miembro del equipo
// @Tags         team
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InviteMemberRequest  true  "Datos del miembro"
// @Success      201   {object}  dto.TeamMemberResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/team [post]
func (h *TeamHandler) Invite(c *fiber.Ctx) error {
	var in dto.InviteMemberRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Invite(c.Context(), GetDealerID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SetPermissions godoc
// @Summary      Sincronizar permisos de un miembro
// @Tags         team
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del miembro"
// @Param        body  body  dto.SetPermissionsRequest  true  "Lista completa de códigos"
// @Success      200   {object}  dto.SetPermissionsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/team/{id}/permissions [put]
func (h *TeamHandler) SetPermissions(c *fiber.Ctx) error {
	var in dto.SetPermissionsRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SetPermissions(c.Context(), GetDealerID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Remove godoc
// @Summary      Retirar un miembro del equipo
// @Tags         team
// @Security     Bearer
// @Param        id   path  string  true  "ID del miembro"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/team/{id} [delete]
func (h *TeamHandler) Remove(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.RemoveMember(c.Context(), GetDealerID(c), GetUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
