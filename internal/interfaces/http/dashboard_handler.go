package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/dealerhub-api/internal/application/analytics"
	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/usecase"
)

// DashboardHandler maneja el resumen del dealer y las subidas de imágenes.
type DashboardHandler struct {
	uc      *appanalytics.DashboardUseCase
	uploads *usecase.UploadUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, uploads *usecase.UploadUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, uploads: uploads}
}

// GetSummary devuelve ventas del día y del mes, margen, alertas de stock, trabajo pendiente y top 5.
// GET /api/dashboard/summary
//
// No requiere parámetros; las fechas se calculan automáticamente en el servidor.
//
// @Summary      Resumen del dealer
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context(), GetDealerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// PresignUpload godoc
// @Summary      URL firmada para subir una imagen
// @Description  El cliente hace PUT del archivo a upload_url y guarda public_url en la entidad.
// @Tags         uploads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PresignUploadRequest  true  "Tipo y content type"
// @Success      200   {object}  dto.PresignUploadResponse
// @Failure      503   {object}  dto.ErrorResponse  "almacenamiento no configurado"
// @Router       /api/uploads/presign [post]
func (h *DashboardHandler) PresignUpload(c *fiber.Ctx) error {
	var in dto.PresignUploadRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uploads.PresignUpload(c.Context(), GetDealerID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
