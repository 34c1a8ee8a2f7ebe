package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pasar/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db      *gorm.DB
	timeout time.Duration
	txCtx   context.Context // set when bound to a transaction
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB, timeout time.Duration) *GORMOrderRepository {
	return &GORMOrderRepository{
		db:      db,
		timeout: timeout,
	}
}

// Create writes the order header, reads back its generated ID, then writes every
// item stamped with that ID. Outside a transaction it opens its own so the
// aggregate is still all-or-nothing.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if len(order.Items) == 0 {
		return errors.New("order must contain at least one item")
	}
	ctx, cancel := scope(ctx, r.timeout, r.txCtx)
	defer cancel()

	if r.txCtx != nil {
		return insertAggregate(r.db.WithContext(ctx), order)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insertAggregate(tx, order)
	})
}

func insertAggregate(db *gorm.DB, order *models.Order) error {
	if err := db.Omit(clause.Associations).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	if order.ID == 0 {
		return errors.New("failed to create order: no identity assigned")
	}

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	if err := db.Omit(clause.Associations).Create(&order.Items).Error; err != nil {
		return fmt.Errorf("failed to create items for order %d: %w", order.ID, err)
	}
	return nil
}

// GetByID retrieves an order and its items.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	ctx, cancel := scope(ctx, r.timeout, r.txCtx)
	defer cancel()

	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items", orderedItems).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}
	return &order, nil
}

// ListByCustomer returns one page of customerID's orders, most recent first, and
// the count of all their orders.
func (r *GORMOrderRepository) ListByCustomer(ctx context.Context, customerID uint, page, limit int) ([]models.Order, int64, error) {
	ctx, cancel := scope(ctx, r.timeout, r.txCtx)
	defer cancel()

	return r.page(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("customer_id = ?", customerID)
	}, page, limit)
}

// ListContainingProducts returns one page of the orders that reference any of
// productIDs. The containment test is a subquery so each order counts once no
// matter how many of its items match.
func (r *GORMOrderRepository) ListContainingProducts(ctx context.Context, productIDs []uint, page, limit int) ([]models.Order, int64, error) {
	if len(productIDs) == 0 {
		return []models.Order{}, 0, nil
	}
	ctx, cancel := scope(ctx, r.timeout, r.txCtx)
	defer cancel()

	return r.page(ctx, func(db *gorm.DB) *gorm.DB {
		matching := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.OrderItem{}).
			Select("order_id").
			Where("product_id IN ?", productIDs)
		return db.Where("id IN (?)", matching)
	}, page, limit)
}

func (r *GORMOrderRepository) page(ctx context.Context, filter func(*gorm.DB) *gorm.DB, page, limit int) ([]models.Order, int64, error) {
	base := func() *gorm.DB {
		return filter(r.db.WithContext(ctx).Model(&models.Order{}))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	orders := []models.Order{}
	if total == 0 {
		return orders, 0, nil
	}
	err := base().
		Preload("Items", orderedItems).
		Order("created_at DESC").Order("id DESC").
		Offset(offset(page, limit)).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.id ASC")
}
