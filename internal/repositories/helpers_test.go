package repositories_test

import (
	"testing"
	"time"

	"pasar/internal/config"
	"pasar/internal/database"
	"pasar/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with foreign keys enforced.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.Config{
		DBDriver:          "sqlite",
		DatabaseDSN:       "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1",
		DBMaxOpenConns:    1,
		DBMaxIdleConns:    1,
		DBConnMaxLifetime: time.Hour,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, typ models.UserType) *models.User {
	t.Helper()
	u := &models.User{Email: email, PasswordHash: "x", FirstName: "F", LastName: "L", UserType: typ}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedProduct(t *testing.T, db *gorm.DB, owner uint, name, price string) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: decimal.RequireFromString(price), OwnerID: owner}
	require.NoError(t, db.Create(p).Error)
	return p
}

func newOrder(customer uint, at time.Time, items ...models.OrderItem) *models.Order {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalPrice)
	}
	return &models.Order{
		CustomerID:      customer,
		TotalAmount:     total,
		ShippingAddress: "1 Market St",
		Status:          models.OrderStatusPlaced,
		Items:           items,
		CreatedAt:       at,
	}
}

func item(p *models.Product, qty int) models.OrderItem {
	return models.OrderItem{
		ProductID:    p.ID,
		ProductName:  p.Name,
		ProductPrice: p.Price,
		Quantity:     qty,
		TotalPrice:   p.Price.Mul(decimal.NewFromInt(int64(qty))),
	}
}
