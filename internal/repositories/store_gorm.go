package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// GORMStore is a GORM implementation of Store. Every transaction it opens is
// bounded by queryTimeout.
type GORMStore struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

// NewGORMStore creates a new instance of GORMStore.
func NewGORMStore(db *gorm.DB, queryTimeout time.Duration) *GORMStore {
	return &GORMStore{db: db, queryTimeout: queryTimeout}
}

// Begin opens a transaction.
func (s *GORMStore) Begin(ctx context.Context) (Tx, error) {
	cancel := context.CancelFunc(func() {})
	if s.queryTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
	}
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		cancel()
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	return &gormTx{db: tx, ctx: ctx, cancel: cancel}, nil
}

// Products returns a repository bound to the pool rather than a transaction.
func (s *GORMStore) Products() *GORMProductRepository {
	return NewGORMProductRepository(s.db, s.queryTimeout)
}

// Orders returns a repository bound to the pool rather than a transaction.
func (s *GORMStore) Orders() *GORMOrderRepository {
	return NewGORMOrderRepository(s.db, s.queryTimeout)
}

// Users returns a repository bound to the pool.
func (s *GORMStore) Users() *GORMUserRepository {
	return NewGORMUserRepository(s.db, s.queryTimeout)
}

type gormTx struct {
	db     *gorm.DB
	ctx    context.Context // carries the transaction deadline
	cancel context.CancelFunc
}

func (t *gormTx) Products() ProductRepository {
	return &GORMProductRepository{db: t.db, txCtx: t.ctx}
}

func (t *gormTx) Orders() OrderRepository {
	return &GORMOrderRepository{db: t.db, txCtx: t.ctx}
}

func (t *gormTx) Commit() error {
	defer t.cancel()
	if err := t.db.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (t *gormTx) Rollback() error {
	defer t.cancel()
	if err := t.db.Rollback().Error; err != nil {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

// scope bounds ctx for one statement. Inside a transaction the statement gets the
// transaction's deadline; otherwise it gets its own timeout.
func scope(ctx context.Context, timeout time.Duration, txCtx context.Context) (context.Context, context.CancelFunc) {
	if txCtx != nil {
		if deadline, ok := txCtx.Deadline(); ok {
			return context.WithDeadline(ctx, deadline)
		}
		return ctx, func() {}
	}
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
