package repositories

import (
	"context"
	"errors"

	"pasar/internal/models"
)

// ErrNotFound is returned when a single-record lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	// FindByIDs resolves every id in one query. Missing ids are simply absent from the result.
	FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	IDsByOwner(ctx context.Context, ownerID uint) ([]uint, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id, ownerID uint) error
	List(ctx context.Context, page, limit int) ([]models.Product, int64, error)
	ListByOwner(ctx context.Context, ownerID uint, page, limit int) ([]models.Product, int64, error)
}

// OrderRepository defines the interface for order aggregate data access.
type OrderRepository interface {
	// Create persists the order header and all of its items atomically.
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uint, page, limit int) ([]models.Order, int64, error)
	// ListContainingProducts returns distinct orders with at least one item referencing productIDs.
	ListContainingProducts(ctx context.Context, productIDs []uint, page, limit int) ([]models.Order, int64, error)
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	MarkEmailVerified(ctx context.Context, id uint) error
}

// Store opens transactions over the repositories.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one open transaction. Repositories obtained from it read and write inside
// the transaction until Commit or Rollback.
type Tx interface {
	Products() ProductRepository
	Orders() OrderRepository
	Commit() error
	Rollback() error
}

// RunInTx begins a transaction, runs fn and commits. Any error or panic from fn
// rolls back everything fn staged.
func RunInTx(ctx context.Context, store Store, fn func(tx Tx) error) (err error) {
	tx, err := store.Begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && err == nil {
			err = rbErr
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
