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
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Pescaderia-api/internal/application/inventory"
	"github.com/jhoicas/Pescaderia-api/internal/application/usecase"
	"github.com/jhoicas/Pescaderia-api/internal/infrastructure/cache"
	"github.com/jhoicas/Pescaderia-api/internal/infrastructure/messaging"
	"github.com/jhoicas/Pescaderia-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Pescaderia-api/internal/interfaces/http"
	"github.com/jhoicas/Pescaderia-api/pkg/config"
	"github.com/jhoicas/Pescaderia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Order.LockRetries, log.Component("tx"))

	// Caché de lecturas de stock (opcional). Sin Redis las pantallas leen directo de Postgres.
	var (
		stockReader inventory.StockReader           = postgres.NewStockReader(pool)
		invalidator inventory.StockCacheInvalidator = inventory.NopInvalidator{}
	)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis no disponible al iniciar; la caché degradará a Postgres")
		}
		stockCache := cache.NewStockCache(rdb, stockReader, cfg.Redis.StockTTL(), log.Component("stock_cache"))
		stockReader = stockCache
		invalidator = stockCache
	}

	// Eventos stock.changed (opcional).
	var publisher inventory.StockEventPublisher = inventory.NopPublisher{}
	if cfg.AMQP.URL != "" {
		conn, ch, err := messaging.SetupConn(cfg.AMQP.URL, cfg.AMQP.Exchange, log.Component("amqp"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer conn.Close()
		defer ch.Close()
		publisher = messaging.NewStockPublisher(ch, cfg.AMQP.Exchange)
	}

	placeOrderUC := inventory.NewPlaceOrderUseCase(txRunner, invalidator, publisher, cfg.Order.TxTimeout(), log.Component("orders"))
	adjustStockUC := inventory.NewAdjustStockUseCase(txRunner, invalidator, publisher, log.Component("stock_admin"))
	stockQueryUC := inventory.NewStockQueryUseCase(stockReader)
	productUC := usecase.NewProductUseCase(txRunner, productRepo, stockRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Pescadería API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		StockQuery: stockQueryUC,
		AdjustUC:   adjustStockUC,
		OrderUC:    placeOrderUC,
		JWTSecret:  cfg.JWT.Secret,
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
