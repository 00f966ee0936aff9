package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/dealerhub-api/internal/application/analytics"
	"github.com/jhoicas/dealerhub-api/internal/application/auth"
	"github.com/jhoicas/dealerhub-api/internal/application/fulfillment"
	"github.com/jhoicas/dealerhub-api/internal/application/inventory"
	"github.com/jhoicas/dealerhub-api/internal/application/ports"
	"github.com/jhoicas/dealerhub-api/internal/application/pos"
	"github.com/jhoicas/dealerhub-api/internal/application/usecase"
	"github.com/jhoicas/dealerhub-api/internal/application/workshop"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	DealerUC    *usecase.DealerUseCase
	CategoryUC  *usecase.CategoryUseCase
	ProductUC   *usecase.ProductUseCase
	InventoryUC *inventory.UseCase
	POSUC       *pos.UseCase
	WorkshopUC  *workshop.UseCase
	OrdersUC    *fulfillment.UseCase
	TeamUC      *usecase.TeamUseCase
	UserUC      *usecase.UserUseCase
	PortfolioUC *usecase.PortfolioUseCase
	DashboardUC *appanalytics.DashboardUseCase
	UploadUC    *usecase.UploadUseCase

	JWTSecret      string
	Limiter        ports.RateLimiter // nil = sin rate limit
	LoginPerMinute int
}

// Router registra las rutas de la API.
// Las rutas públicas van antes del grupo protegido: el middleware de auth se monta sobre /api.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC)
	dealerHandler := NewDealerHandler(deps.DealerUC)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	posHandler := NewPOSHandler(deps.POSUC)
	jobCardHandler := NewJobCardHandler(deps.WorkshopUC)
	orderHandler := NewOrderHandler(deps.OrdersUC)
	teamHandler := NewTeamHandler(deps.TeamUC)
	userHandler := NewUserHandler(deps.UserUC, deps.PortfolioUC)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.UploadUC)

	// Auth (público)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", RateLimit(deps.Limiter, "login", deps.LoginPerMinute, time.Minute), authHandler.Login)

	// Marketplace (público)
	api.Post("/dealers/register", dealerHandler.Register)
	api.Get("/storefront/:slug", dealerHandler.Storefront)
	api.Get("/categories/tree", categoryHandler.Tree)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), SessionGuard(deps.AuthUC))
	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/me/portfolio", userHandler.Portfolio)

	// Categorías: lectura para cualquier usuario autenticado, escritura superadmin
	categories := protected.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", RequireRole(entity.RoleSuperAdmin), categoryHandler.Create)
	categories.Put("/:id", RequireRole(entity.RoleSuperAdmin), categoryHandler.Update)
	categories.Delete("/:id", RequireRole(entity.RoleSuperAdmin), categoryHandler.Delete)

	// Administración de la plataforma
	admin := protected.Group("/admin", RequireRole(entity.RoleSuperAdmin))
	admin.Get("/dealers", dealerHandler.List)
	admin.Patch("/dealers/:id/status", dealerHandler.SetStatus)
	admin.Get("/users", userHandler.List)
	admin.Patch("/users/:id/role", userHandler.UpdateRole)
	admin.Patch("/users/:id/status", userHandler.SetStatus)
	admin.Delete("/users/:id", userHandler.Delete)

	// Pedidos del cliente
	orders := protected.Group("/orders", RequireRole(entity.RoleCustomer))
	orders.Post("/", orderHandler.PlaceOrder)
	orders.Get("/", orderHandler.ListMine)
	orders.Get("/:id", orderHandler.GetMine)

	// Personal del dealer: rol de staff + dealer en el token + permiso por ruta
	staff := func(prefix string) fiber.Router {
		return protected.Group(prefix,
			RequireRole(entity.RoleOwner, entity.RoleManager, entity.RoleCashier, entity.RoleTechnician),
			RequireDealer())
	}
	perm := func(code string) fiber.Handler { return RequirePermission(code, deps.TeamUC) }

	settings := staff("/dealer")
	settings.Get("/settings", dealerHandler.GetSettings)
	settings.Patch("/settings", perm(entity.PermSettingsManage), dealerHandler.UpdateSettings)

	products := staff("/products")
	products.Get("/", perm(entity.PermCatalogView), productHandler.List)
	products.Get("/:id", perm(entity.PermCatalogView), productHandler.GetByID)
	products.Post("/", perm(entity.PermInventoryManage), productHandler.Create)
	products.Put("/:id", perm(entity.PermInventoryManage), productHandler.Update)
	products.Delete("/:id", perm(entity.PermInventoryManage), productHandler.Delete)
	products.Post("/:id/variants", perm(entity.PermInventoryManage), productHandler.AddVariant)
	products.Put("/:id/variants/:variantId", perm(entity.PermInventoryManage), productHandler.UpdateVariant)
	products.Delete("/:id/variants/:variantId", perm(entity.PermInventoryManage), productHandler.DeleteVariant)

	inv := staff("/inventory")
	inv.Post("/batches", perm(entity.PermInventoryManage), inventoryHandler.ReceiveBatch)
	inv.Post("/adjustments", perm(entity.PermInventoryManage), inventoryHandler.Adjust)
	inv.Get("/overview", perm(entity.PermCatalogView), inventoryHandler.Overview)
	inv.Get("/overview/export", perm(entity.PermReportsView), inventoryHandler.ExportOverview)
	inv.Get("/products/:id/batches", perm(entity.PermCatalogView), inventoryHandler.ListBatches)
	inv.Get("/products/:id/movements", perm(entity.PermCatalogView), inventoryHandler.ListMovements)

	sales := staff("/pos/sales")
	sales.Post("/", perm(entity.PermPOSSell), posHandler.Checkout)
	sales.Get("/", perm(entity.PermPOSSell), posHandler.List)
	sales.Get("/:id", perm(entity.PermPOSSell), posHandler.GetByID)
	sales.Get("/:id/receipt", perm(entity.PermPOSSell), posHandler.Receipt)
	sales.Post("/:id/void", perm(entity.PermPOSVoid), posHandler.Void)

	jobs := staff("/job-cards")
	jobs.Use(perm(entity.PermJobCardsManage))
	jobs.Post("/", jobCardHandler.Create)
	jobs.Get("/", jobCardHandler.List)
	jobs.Get("/:id", jobCardHandler.GetByID)
	jobs.Patch("/:id", jobCardHandler.Update)
	jobs.Post("/:id/advance", jobCardHandler.Advance)

	fulfill := staff("/fulfillment")
	fulfill.Use(perm(entity.PermOrdersFulfill))
	fulfill.Get("/sub-orders", orderHandler.ListSubOrders)
	fulfill.Get("/sub-orders/:id", orderHandler.GetSubOrder)
	fulfill.Post("/sub-orders/:id/advance", orderHandler.AdvanceSubOrder)

	team := staff("/team")
	team.Use(perm(entity.PermTeamManage))
	team.Get("/permissions", teamHandler.Catalogue)
	team.Get("/", teamHandler.List)
	team.Post("/", teamHandler.Invite)
	team.Put("/:id/permissions", teamHandler.SetPermissions)
	team.Delete("/:id", teamHandler.Remove)

	staff("/dashboard").Get("/summary", perm(entity.PermReportsView), dashboardHandler.GetSummary)
	staff("/uploads").Post("/presign", dashboardHandler.PresignUpload)
}
