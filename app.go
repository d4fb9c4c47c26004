package main

import (
	"context"
	"errors"
	"fmt"

	"shopkart/internal/config"
	"shopkart/internal/handlers"
	"shopkart/internal/middleware"
	"shopkart/internal/models"
	"shopkart/internal/repositories"
	"shopkart/internal/services"
	"shopkart/internal/telemetry"
	"shopkart/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	productEventsQueue = "product_events"
	productEventsKey   = "product.#"
)

// App bundles the HTTP server with the resources it owns.
type App struct {
	Fiber       *fiber.App
	AuthService *services.AuthService
	db          *gorm.DB
	mqClient    *rabbitmq.Client
	telemetry   *telemetry.Telemetry
	logger      hclog.Logger
}

// NewApp wires configuration, storage, messaging, telemetry and routes.
func NewApp(cfg config.Config, logger hclog.Logger) (*App, error) {
	ctx := context.Background()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	telem, err := telemetry.New(ctx, telemetry.Config{
		ServiceName:  cfg.ServiceName,
		OTLPEndpoint: cfg.OTLPEndpoint,
	}, logger.Named("telemetry"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	a := &App{db: db, telemetry: telem, logger: logger}

	// --- Messaging ---
	var publisher services.EventPublisher
	eventsState := "disabled"
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:        cfg.RabbitMQURL,
			Exchange:   services.ProductEventsExchange,
			Queue:      productEventsQueue,
			BindingKey: productEventsKey,
		}, logger.Named("rabbitmq"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		a.mqClient = mqClient
		publisher = mqClient
		eventsState = "connected"
	}

	// --- Repositories and services ---
	var productRepo repositories.ProductRepository = repositories.NewGORMProductRepository(db)
	if cfg.ProductStore == config.ProductStoreMemory {
		logger.Warn("Product catalog is kept in memory and will not survive a restart")
		productRepo = repositories.NewMemoryProductRepository()
	}
	userRepo := repositories.NewGORMUserRepository(db)

	productService := services.NewProductService(productRepo, publisher, logger.Named("products"), telem.Meter("shopkart/internal/services"))
	a.AuthService = services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, logger.Named("auth"))

	if cfg.SeedProducts {
		seedProducts(ctx, productService, productRepo, logger)
	}

	// --- HTTP ---
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	httpLogger := logger.Named("http")
	productHandler := handlers.NewProductHandler(productService, httpLogger)
	authHandler := handlers.NewAuthHandler(a.AuthService, httpLogger)
	healthHandler := handlers.NewHealthHandler(sqlDB, eventsState)

	app := fiber.New(fiber.Config{
		AppName:               cfg.ServiceName,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.Tracing(telem.Tracer("shopkart/http")))

	app.Get("/health", healthHandler.HandleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(telem.Registry, promhttp.HandlerOpts{})))

	api := app.Group("/api")
	if cfg.AuthEnabled {
		authHandler.RegisterRoutes(api)
		productHandler.RegisterRoutes(api, middleware.MutationsOnly(middleware.AuthRequired(a.AuthService, httpLogger)))
	} else {
		productHandler.RegisterRoutes(api)
	}

	a.Fiber = app
	return a, nil
}

func openDatabase(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	level := gormlogger.Silent
	if cfg.LogLevel == "debug" {
		level = gormlogger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// StartEventLog consumes the product events queue and logs every event.
func (a *App) StartEventLog() error {
	if a.mqClient == nil {
		return nil
	}
	eventLogger := a.logger.Named("events")
	return a.mqClient.Consume(func(msg amqp.Delivery) error {
		eventLogger.Info("Received product event", "routing_key", msg.RoutingKey, "body", string(msg.Body))
		return nil
	})
}

// Shutdown stops the HTTP server and releases every owned resource.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.Fiber.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("fiber shutdown: %w", err))
	}
	if a.mqClient != nil {
		if err := a.mqClient.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.telemetry.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}
	return errors.Join(errs...)
}

// seedProducts populates an empty catalog with a few demo products.
func seedProducts(ctx context.Context, service *services.ProductService, repo repositories.ProductRepository, logger hclog.Logger) {
	existing, err := repo.FindAll(ctx)
	if err != nil || len(existing) > 0 {
		return
	}
	products := []models.Product{
		{Name: "Laptop", Description: "High performance laptop", Price: 1200.00, ImageURL: "https://example.com/images/laptop.jpg"},
		{Name: "Keyboard", Description: "Mechanical keyboard", Price: 75.00, ImageURL: "https://example.com/images/keyboard.jpg"},
		{Name: "Mouse", Description: "Ergonomic wireless mouse", Price: 25.00, ImageURL: "https://example.com/images/mouse.jpg"},
	}
	for i := range products {
		if _, err := service.CreateProduct(ctx, &products[i]); err != nil {
			logger.Warn("Error seeding product", "name", products[i].Name, "error", err)
			continue
		}
		logger.Info("Seeded product", "name", products[i].Name, "id", products[i].ID)
	}
}
