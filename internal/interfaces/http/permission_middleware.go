package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/dealerhub-api/internal/application/dto"
)

// permissionChecker es el contrato mínimo que necesita el middleware para verificar permisos.
// Lo implementa *usecase.TeamUseCase.
type permissionChecker interface {
	HasPermission(ctx context.Context, userID, role, code string) (bool, error)
}

// RequirePermission verifica que el usuario del token tenga el permiso indicado.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 403 Forbidden → el usuario no tiene el permiso.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
func RequirePermission(code string, checker permissionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}

		ok, err := checker.HasPermission(c.Context(), userID, GetRole(c), code)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Str("permission", code).Msg("verificación de permiso fallida")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "PERMISSION_CHECK_FAILED",
				Message: "no se pudo verificar el permiso, intente más tarde",
			})
		}

		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "se requiere el permiso '" + code + "'",
			})
		}

		return c.Next()
	}
}
