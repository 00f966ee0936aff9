package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/dealerhub-api/docs"
	appanalytics "github.com/jhoicas/dealerhub-api/internal/application/analytics"
	"github.com/jhoicas/dealerhub-api/internal/application/auth"
	"github.com/jhoicas/dealerhub-api/internal/application/fulfillment"
	"github.com/jhoicas/dealerhub-api/internal/application/inventory"
	"github.com/jhoicas/dealerhub-api/internal/application/ports"
	"github.com/jhoicas/dealerhub-api/internal/application/pos"
	"github.com/jhoicas/dealerhub-api/internal/application/usecase"
	"github.com/jhoicas/dealerhub-api/internal/application/workshop"
	infracache "github.com/jhoicas/dealerhub-api/internal/infrastructure/cache"
	infraexport "github.com/jhoicas/dealerhub-api/internal/infrastructure/export"
	infrapdf "github.com/jhoicas/dealerhub-api/internal/infrastructure/pdf"
	"github.com/jhoicas/dealerhub-api/internal/infrastructure/postgres"
	infrastorage "github.com/jhoicas/dealerhub-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/dealerhub-api/internal/interfaces/http"
	"github.com/jhoicas/dealerhub-api/pkg/config"
	"github.com/jhoicas/dealerhub-api/pkg/logger"
)

// @title        DealerHub API
// @version      1.0
// @description  Marketplace multi-dealer: inventario por lotes FIFO, POS, taller y pedidos.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.DB.AutoMigrate {
		m, err := postgres.NewMigrator(cfg.DB.ConnectionString())
		if err != nil {
			log.Fatal().Err(err).Msg("migrador")
		}
		if err := m.Up(); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		_ = m.Close()
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Redis es opcional: sin él la caché no guarda nada y el login no se limita.
	var (
		cache   ports.Cache = ports.NopCache{}
		limiter ports.RateLimiter
	)
	if cfg.Redis.Enabled() {
		rdb, err := infracache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible; continuando sin caché")
		} else {
			defer rdb.Close()
			cache = infracache.NewRedisCache(rdb)
			limiter = infracache.NewRedisRateLimiter(rdb)
		}
	}

	var storage ports.ObjectStorage
	if cfg.Storage.Enabled() {
		s3, err := infrastorage.NewS3Storage(ctx, cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("almacenamiento S3")
		}
		storage = s3
	} else {
		log.Warn().Msg("S3_BUCKET vacío: subidas de imágenes deshabilitadas")
	}

	userRepo := postgres.NewUserRepository(pool)
	dealerRepo := postgres.NewDealerRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	batchRepo := postgres.NewInventoryBatchRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	jobRepo := postgres.NewJobCardRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	permRepo := postgres.NewPermissionRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	inventoryUC := inventory.NewUseCase(txRunner, productRepo, batchRepo, movementRepo, dealerRepo, infraexport.NewXLSXExporter())
	ordersUC := fulfillment.NewUseCase(txRunner, inventoryUC, orderRepo, productRepo, dealerRepo)
	authUC := auth.NewAuthUseCase(userRepo, dealerRepo, cache, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "DealerHub API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		DealerUC:       usecase.NewDealerUseCase(txRunner, dealerRepo, productRepo, cache),
		CategoryUC:     usecase.NewCategoryUseCase(categoryRepo),
		ProductUC:      usecase.NewProductUseCase(productRepo, categoryRepo),
		InventoryUC:    inventoryUC,
		POSUC:          pos.NewUseCase(txRunner, inventoryUC, saleRepo, productRepo, dealerRepo, infrapdf.NewReceiptGenerator()),
		WorkshopUC:     workshop.NewUseCase(txRunner, jobRepo, userRepo),
		OrdersUC:       ordersUC,
		TeamUC:         usecase.NewTeamUseCase(txRunner, userRepo, permRepo, cache),
		UserUC:         usecase.NewUserUseCase(userRepo, cache),
		PortfolioUC:    usecase.NewPortfolioUseCase(userRepo, orderRepo, dealerRepo, productRepo, saleRepo, ordersUC),
		DashboardUC:    appanalytics.NewDashboardUseCase(analyticsRepo),
		UploadUC:       usecase.NewUploadUseCase(storage),
		JWTSecret:      cfg.JWT.Secret,
		Limiter:        limiter,
		LoginPerMinute: cfg.RateLimit.LoginPerMinute,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
