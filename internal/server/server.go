package server

import (
	"context"
	"log/slog"
	"time"

	"pasar/internal/config"
	"pasar/internal/handlers"
	"pasar/internal/metrics"
	"pasar/internal/middleware"
	"pasar/internal/repositories"
	"pasar/internal/services"
	"pasar/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

const uploadsPrefix = "/uploads"

// Deps are the long-lived resources the HTTP app is built on.
type Deps struct {
	Config    config.Config
	DB        *gorm.DB
	Publisher services.OrderEventPublisher  // optional
	Metrics   *metrics.Metrics              // optional
	Notifier  services.VerificationNotifier // optional, defaults to the log
	Logger    *slog.Logger
}

// New wires repositories, services and handlers into a Fiber app.
func New(deps Deps) (*fiber.App, error) {
	cfg := deps.Config
	log := deps.Logger

	content, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL, uploadsPrefix)
	if err != nil {
		return nil, err
	}

	// --- Initialize Repositories ---
	store := repositories.NewGORMStore(deps.DB, cfg.DBQueryTimeout)

	// --- Initialize Services ---
	authService := services.NewAuthService(store.Users(), cfg.JWTSecret, cfg.JWTTTL, log.With("scope", "auth"))
	if deps.Notifier != nil {
		authService.WithNotifier(deps.Notifier)
	}
	productService := services.NewProductService(store.Products(), content, log.With("scope", "products"))
	orderService := services.NewOrderService(store, deps.Publisher, deps.Metrics, log.With("scope", "orders"))

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService, log)
	productHandler := handlers.NewProductHandler(productService, log)
	orderHandler := handlers.NewOrderHandler(orderService, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log),
		BodyLimit:    20 * 1024 * 1024,
	})
	app.Use(logger.New())
	app.Static(uploadsPrefix, content.Dir())

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")
	auth := middleware.AuthRequired(authService, log)
	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1, auth)
	orderHandler.RegisterRoutes(apiV1, auth)

	app.Get("/health", healthHandler(deps.DB))
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}
	return app, nil
}

func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := "healthy"
		code := fiber.StatusOK
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			err = sqlDB.PingContext(ctx)
			cancel()
		}
		if err != nil {
			status = "unhealthy"
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
