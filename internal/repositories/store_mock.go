package repositories

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Begin(ctx context.Context) (Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Tx), args.Error(1)
}

// MockTx is a testify mock of Tx that hands out the given repositories.
type MockTx struct {
	mock.Mock
	ProductRepo ProductRepository
	OrderRepo   OrderRepository
}

func (m *MockTx) Products() ProductRepository { return m.ProductRepo }

func (m *MockTx) Orders() OrderRepository { return m.OrderRepo }

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}
