package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"pasar/internal/metrics"
	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/pkg/rabbitmq"
)

// OrderEventPublisher announces committed orders to other services.
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event rabbitmq.OrderPlacedEvent) error
}

// OrderService handles order placement and order listings.
type OrderService struct {
	store     repositories.Store
	publisher OrderEventPublisher // optional
	metrics   *metrics.Metrics    // optional
	logger    *slog.Logger
	now       func() time.Time
}

// NewOrderService creates a new OrderService. publisher and m may be nil.
func NewOrderService(store repositories.Store, publisher OrderEventPublisher, m *metrics.Metrics, logger *slog.Logger) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// PlaceOrderInput is an authenticated customer's cart.
type PlaceOrderInput struct {
	CustomerID      uint
	ShippingAddress string
	Lines           []CartLine
}

// PlaceOrder prices the cart and stores the order with all its items in one
// transaction. Either the whole aggregate is committed or nothing is.
//
// Prices are read at the store's default isolation level without row locks, so
// two concurrent placements may each snapshot a price that is changed right after.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	if strings.TrimSpace(in.ShippingAddress) == "" {
		s.metrics.PlacementFailed("validation")
		return nil, validationErrorf("shipping address is required")
	}

	var order *models.Order
	err := repositories.RunInTx(ctx, s.store, func(tx repositories.Tx) error {
		snapshot, err := BuildSnapshot(ctx, tx.Products(), in.Lines)
		if err != nil {
			return err
		}
		order = newOrder(in.CustomerID, in.ShippingAddress, snapshot)
		order.CreatedAt = s.now()
		return tx.Orders().Create(ctx, order)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			s.metrics.PlacementFailed("validation")
			return nil, err
		case errors.Is(err, ErrProductNotFound):
			s.metrics.PlacementFailed("product_not_found")
			return nil, err
		}
		s.metrics.PlacementFailed("persistence")
		s.logger.Error("failed to place order", "customer_id", in.CustomerID, "error", err)
		return nil, ErrPersistence
	}

	s.metrics.OrderPlaced(order.TotalAmount)
	s.logger.Info("order placed", "order_id", order.ID, "customer_id", order.CustomerID, "total_amount", order.TotalAmount.String())
	s.publishPlaced(ctx, order)
	return order, nil
}

// publishPlaced runs after commit; a broker failure never undoes the order.
func (s *OrderService) publishPlaced(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := rabbitmq.OrderPlacedEvent{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		PlacedAt:    order.CreatedAt,
	}
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Warn("failed to publish order placed event", "order_id", order.ID, "error", err)
	}
}

// GetOrder returns one of customerID's orders with its items. Orders placed by
// other customers are reported as not found.
func (s *OrderService) GetOrder(ctx context.Context, customerID, orderID uint) (*models.Order, error) {
	var order *models.Order
	err := repositories.RunInTx(ctx, s.store, func(tx repositories.Tx) error {
		var err error
		order, err = tx.Orders().GetByID(ctx, orderID)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		s.logger.Error("failed to get order", "order_id", orderID, "error", err)
		return nil, ErrPersistence
	}
	if order.CustomerID != customerID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListCustomerOrders returns one page of customerID's orders, most recent first.
func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID uint, page, limit int) (*Page[models.Order], error) {
	if err := validatePage(page, limit); err != nil {
		return nil, err
	}

	var (
		orders []models.Order
		total  int64
	)
	err := repositories.RunInTx(ctx, s.store, func(tx repositories.Tx) error {
		var err error
		orders, total, err = tx.Orders().ListByCustomer(ctx, customerID, page, limit)
		return err
	})
	if err != nil {
		s.logger.Error("failed to list customer orders", "customer_id", customerID, "error", err)
		return nil, ErrPersistence
	}
	return newPage(orders, total, page, limit), nil
}

// ListVendorOrders returns one page of the orders containing at least one of
// vendorID's products. Other vendors' items in those orders are included.
func (s *OrderService) ListVendorOrders(ctx context.Context, vendorID uint, page, limit int) (*Page[models.Order], error) {
	if err := validatePage(page, limit); err != nil {
		return nil, err
	}

	var (
		orders []models.Order
		total  int64
	)
	err := repositories.RunInTx(ctx, s.store, func(tx repositories.Tx) error {
		productIDs, err := tx.Products().IDsByOwner(ctx, vendorID)
		if err != nil {
			return err
		}
		if len(productIDs) == 0 {
			return nil
		}
		orders, total, err = tx.Orders().ListContainingProducts(ctx, productIDs, page, limit)
		return err
	})
	if err != nil {
		s.logger.Error("failed to list vendor orders", "vendor_id", vendorID, "error", err)
		return nil, ErrPersistence
	}
	return newPage(orders, total, page, limit), nil
}
