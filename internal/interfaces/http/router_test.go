package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/dealerhub-api/internal/application/analytics"
	"github.com/jhoicas/dealerhub-api/internal/application/apptest"
	"github.com/jhoicas/dealerhub-api/internal/application/auth"
	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/fulfillment"
	"github.com/jhoicas/dealerhub-api/internal/application/inventory"
	"github.com/jhoicas/dealerhub-api/internal/application/pos"
	"github.com/jhoicas/dealerhub-api/internal/application/usecase"
	"github.com/jhoicas/dealerhub-api/internal/application/workshop"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	apphttp "github.com/jhoicas/dealerhub-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/dealerhub-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor completo sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

func newTestServer(t *testing.T) (*fiber.App, *apptest.Store) {
	t.Helper()
	s := apptest.NewStore()
	tx := apptest.TxRunner{S: s}
	cache := apptest.NewCache()

	invUC := inventory.NewUseCase(tx, s.Products(), s.Batches(), s.MovementsRepo(), s.Dealers(), nil)
	ordersUC := fulfillment.NewUseCase(tx, invUC, s.Orders(), s.Products(), s.Dealers())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(s.Users(), s.Dealers(), cache, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		DealerUC:    usecase.NewDealerUseCase(tx, s.Dealers(), s.Products(), cache),
		CategoryUC:  usecase.NewCategoryUseCase(s.Categories()),
		ProductUC:   usecase.NewProductUseCase(s.Products(), s.Categories()),
		InventoryUC: invUC,
		POSUC:       pos.NewUseCase(tx, invUC, s.Sales(), s.Products(), s.Dealers(), nil),
		WorkshopUC:  workshop.NewUseCase(tx, s.JobCards(), s.Users()),
		OrdersUC:    ordersUC,
		TeamUC:      usecase.NewTeamUseCase(tx, s.Users(), s.Permissions(), cache),
		UserUC:      usecase.NewUserUseCase(s.Users(), cache),
		PortfolioUC: usecase.NewPortfolioUseCase(s.Users(), s.Orders(), s.Dealers(), s.Products(), s.Sales(), ordersUC),
		DashboardUC: appanalytics.NewDashboardUseCase(s.Analytics()),
		UploadUC:    usecase.NewUploadUseCase(nil),
		JWTSecret:   testJWTSecret,
	})
	return app, s
}

func bearer(t *testing.T, u *entity.User) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, u.ID, u.DealerID, u.Role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_RegistroLoginYMe(t *testing.T) {
	app, _ := newTestServer(t)

	resp := call(t, app, http.MethodPost, "/api/auth/register", "",
		dto.RegisterRequest{Email: "Ana@Mail.com", Password: "secreto123", Name: "Ana"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: "ana@mail.com", Password: "secreto123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	decode(t, resp, &login)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, entity.RoleCustomer, login.User.Role)

	resp = call(t, app, http.MethodGet, "/api/auth/me", "Bearer "+login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me dto.UserResponse
	decode(t, resp, &me)
	assert.Equal(t, "ana@mail.com", me.Email)
}

func TestRouter_Registro_ErrorDeValidacionPorCampo(t *testing.T) {
	app, _ := newTestServer(t)

	resp := call(t, app, http.MethodPost, "/api/auth/register", "",
		dto.RegisterRequest{Email: "no-es-email", Password: "corta", Name: "Ana"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "VALIDATION", body.Code)
	fields := map[string]string{}
	for _, d := range body.Details {
		fields[d.Field] = d.Rule
	}
	assert.Equal(t, "email", fields["email"], "el campo se reporta por su nombre JSON")
	assert.Equal(t, "min", fields["password"])
}

func TestRouter_LoginCredencialesInvalidas_Retorna401(t *testing.T) {
	app, _ := newTestServer(t)
	resp := call(t, app, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: "nadie@mail.com", Password: "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas públicas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_VitrinaDesconocida_Retorna404(t *testing.T) {
	app, _ := newTestServer(t)
	resp := call(t, app, http.MethodGet, "/api/storefront/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_ArbolDeCategoriasEsPublico(t *testing.T) {
	app, s := newTestServer(t)
	root := s.SeedCategory("", "Motos", "motos")
	s.SeedCategory(root.ID, "Cascos", "cascos")

	resp := call(t, app, http.MethodGet, "/api/categories/tree", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tree []dto.CategoryNode
	decode(t, resp, &tree)
	require.Len(t, tree, 1)
	assert.Equal(t, "motos", tree[0].Slug)
	assert.Len(t, tree[0].Children, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Roles y permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ClienteNoAccedeAProductosDelDealer(t *testing.T) {
	app, s := newTestServer(t)
	customer := s.SeedUser("", entity.RoleCustomer, "c@mail.com", "")

	resp := call(t, app, http.MethodGet, "/api/products", bearer(t, customer), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_CajeroSinPermisoNoCreaProductos(t *testing.T) {
	app, s := newTestServer(t)
	dealer := s.SeedDealer("motos-sur", entity.DealerStatusActive, apptest.Dec("0.19"))
	cashier := s.SeedUser(dealer.ID, entity.RoleCashier, "caja@mail.com", "")
	owner := s.SeedUser(dealer.ID, entity.RoleOwner, "owner@mail.com", "")
	in := dto.CreateProductRequest{SKU: "CAS-01", Name: "Casco", Price: apptest.Dec("250000"), MinStock: 2}

	resp := call(t, app, http.MethodPost, "/api/products", bearer(t, cashier), in)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "cashier sin inventory.manage")

	resp = call(t, app, http.MethodPost, "/api/products", bearer(t, owner), in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "owner tiene todos los permisos")
	var p dto.ProductResponse
	decode(t, resp, &p)
	assert.Equal(t, dealer.ID, p.DealerID)
	assert.Equal(t, entity.StockStatusOutOfStock, p.StockStatus)

	resp = call(t, app, http.MethodPost, "/api/products", bearer(t, owner), in)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "SKU repetido en el mismo dealer")
}

func TestRouter_IDMalFormadoRetorna400(t *testing.T) {
	app, s := newTestServer(t)
	dealer := s.SeedDealer("motos-sur", entity.DealerStatusActive, apptest.Dec("0.19"))
	owner := s.SeedUser(dealer.ID, entity.RoleOwner, "owner@mail.com", "")

	resp := call(t, app, http.MethodGet, "/api/products/no-es-uuid", bearer(t, owner), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "INVALID_ID", body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "id", body.Details[0].Field)

	resp = call(t, app, http.MethodGet, "/api/products/"+uuid.NewString(), bearer(t, owner), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/pos/sales/123/void", bearer(t, owner), dto.VoidSaleRequest{Reason: "error"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión vigente: los cambios de rol y estado aplican sin esperar a que expire el token
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_CambioDeRolAplicaConElMismoToken(t *testing.T) {
	app, s := newTestServer(t)
	dealer := s.SeedDealer("motos-sur", entity.DealerStatusActive, apptest.Dec("0.19"))
	owner := s.SeedUser(dealer.ID, entity.RoleOwner, "owner@mail.com", "")
	admin := s.SeedUser("", entity.RoleSuperAdmin, "root@mail.com", "")
	token := bearer(t, owner)

	resp := call(t, app, http.MethodPost, "/api/products", token, dto.CreateProductRequest{SKU: "A-1", Name: "Casco", Price: apptest.Dec("1000")})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = call(t, app, http.MethodPatch, "/api/admin/users/"+owner.ID+"/role", bearer(t, admin), dto.UpdateRoleRequest{Role: entity.RoleCashier})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/products", token, dto.CreateProductRequest{SKU: "A-2", Name: "Guante", Price: apptest.Dec("1000")})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el token dice owner pero ya es cashier")
}

func TestRouter_UsuarioSuspendidoPierdeAcceso(t *testing.T) {
	app, s := newTestServer(t)
	customer := s.SeedUser("", entity.RoleCustomer, "c@mail.com", "")
	admin := s.SeedUser("", entity.RoleSuperAdmin, "root@mail.com", "")
	token := bearer(t, customer)

	resp := call(t, app, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodPatch, "/api/admin/users/"+customer.ID+"/status", bearer(t, admin),
		dto.UpdateUserStatusRequest{Status: entity.UserStatusSuspended})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "ACCOUNT_DISABLED", body.Code)

	resp = call(t, app, http.MethodDelete, "/api/admin/users/"+customer.ID, bearer(t, admin), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = call(t, app, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "usuario eliminado")
}

func TestRouter_DealerSuspendidoBloqueaAlPersonal(t *testing.T) {
	app, s := newTestServer(t)
	dealer := s.SeedDealer("motos-sur", entity.DealerStatusActive, apptest.Dec("0.19"))
	owner := s.SeedUser(dealer.ID, entity.RoleOwner, "owner@mail.com", "")
	admin := s.SeedUser("", entity.RoleSuperAdmin, "root@mail.com", "")
	token := bearer(t, owner)

	resp := call(t, app, http.MethodGet, "/api/dealer/settings", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodPatch, "/api/admin/dealers/"+dealer.ID+"/status", bearer(t, admin),
		dto.UpdateDealerStatusRequest{Status: entity.DealerStatusSuspended})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/dealer/settings", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_AdminSoloSuperadmin(t *testing.T) {
	app, s := newTestServer(t)
	dealer := s.SeedDealer("motos-sur", entity.DealerStatusActive, apptest.Dec("0.19"))
	owner := s.SeedUser(dealer.ID, entity.RoleOwner, "owner@mail.com", "")
	admin := s.SeedUser("", entity.RoleSuperAdmin, "root@mail.com", "")

	resp := call(t, app, http.MethodGet, "/api/admin/dealers", bearer(t, owner), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/admin/dealers?status=active", bearer(t, admin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.DealerListResponse
	decode(t, resp, &list)
	assert.Equal(t, 1, list.Page.Total)

	resp = call(t, app, http.MethodGet, "/api/admin/dealers?status=cerrado", bearer(t, admin), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "estado fuera del catálogo")
}

// ──────────────────────────────────────────────────────────────────────────────
// POS
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_CheckoutDescuentaStockYDetectaFaltante(t *testing.T) {
	app, s := newTestServer(t)
	dealer := s.SeedDealer("motos-sur", entity.DealerStatusActive, apptest.Dec("0.19"))
	owner := s.SeedUser(dealer.ID, entity.RoleOwner, "owner@mail.com", "")
	p := s.SeedProduct(dealer.ID, "ACE-1", apptest.Dec("30000"), 1)
	s.SeedBatch(dealer.ID, p.ID, 3, apptest.Dec("18000"), time.Now().Add(-time.Hour))

	cart := dto.CheckoutRequest{
		Items:         []dto.CartItemRequest{{ProductID: p.ID, Quantity: 2}},
		PaymentMethod: entity.PaymentCard,
	}
	resp := call(t, app, http.MethodPost, "/api/pos/sales", bearer(t, owner), cart)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sale dto.SaleResponse
	decode(t, resp, &sale)
	assert.Equal(t, "V-000001", sale.Number)
	assert.Equal(t, 1, s.Stock(p.ID))

	resp = call(t, app, http.MethodPost, "/api/pos/sales", bearer(t, owner), cart)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Equal(t, 1, s.Stock(p.ID), "la venta fallida no toca el stock")
}

func TestRouter_CheckoutCarritoVacio_Retorna400(t *testing.T) {
	app, s := newTestServer(t)
	dealer := s.SeedDealer("motos-sur", entity.DealerStatusActive, apptest.Dec("0.19"))
	owner := s.SeedUser(dealer.ID, entity.RoleOwner, "owner@mail.com", "")

	resp := call(t, app, http.MethodPost, "/api/pos/sales", bearer(t, owner),
		dto.CheckoutRequest{PaymentMethod: entity.PaymentCash})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Subidas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_PresignSinAlmacenamiento_Retorna503(t *testing.T) {
	app, s := newTestServer(t)
	dealer := s.SeedDealer("motos-sur", entity.DealerStatusActive, apptest.Dec("0.19"))
	owner := s.SeedUser(dealer.ID, entity.RoleOwner, "owner@mail.com", "")

	resp := call(t, app, http.MethodPost, "/api/uploads/presign", bearer(t, owner),
		dto.PresignUploadRequest{Kind: "logo", ContentType: "image/png"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
