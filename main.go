package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pasar/internal/config"
	"pasar/internal/database"
	"pasar/internal/logging"
	"pasar/internal/metrics"
	"pasar/internal/server"
	"pasar/internal/services"
	"pasar/pkg/rabbitmq"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.Init("pasar", cfg.LogLevel, cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server gracefully stopped")
}

// run serves HTTP, and consumes order events when RabbitMQ is configured, until
// ctx is cancelled or either part fails.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	// --- Database ---
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
	}()
	if err := database.Migrate(db); err != nil {
		return err
	}

	// --- Initialize RabbitMQ Client ---
	mqClient, err := newMQClient(cfg, logging.New("rabbitmq"))
	if err != nil {
		return err
	}
	var publisher services.OrderEventPublisher
	if mqClient != nil {
		defer mqClient.Close()
		publisher = mqClient
	}

	app, err := server.New(server.Deps{
		Config:    cfg,
		DB:        db,
		Publisher: publisher,
		Metrics:   metrics.New(),
		Logger:    logging.New("http"),
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", "addr", cfg.AppPort)
		return app.Listen(cfg.AppPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})
	if mqClient != nil {
		g.Go(func() error {
			return mqClient.ConsumeOrderEvents(gctx, logOrderEvent(logging.New("order-events")))
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newMQClient returns nil when no broker URL is configured.
func newMQClient(cfg config.Config, logger *slog.Logger) (*rabbitmq.Client, error) {
	if cfg.RabbitMQURL == "" {
		logger.Info("RABBITMQ_URL not set, order events disabled")
		return nil, nil
	}
	return rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger)
}

func logOrderEvent(logger *slog.Logger) func(rabbitmq.OrderPlacedEvent) error {
	return func(event rabbitmq.OrderPlacedEvent) error {
		logger.Info("received order event",
			"order_id", event.OrderID,
			"customer_id", event.CustomerID,
			"total_amount", event.TotalAmount.String(),
			"item_count", event.ItemCount,
		)
		return nil
	}
}
