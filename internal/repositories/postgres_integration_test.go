//go:build integration

package repositories_test

import (
	"context"
	"testing"
	"time"

	"pasar/internal/config"
	"pasar/internal/database"
	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgres_OrderAggregateAndVendorListing(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("pasar"),
		postgres.WithUsername("pasar"),
		postgres.WithPassword("pasar"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(config.Config{
		DBDriver:          "postgres",
		DatabaseDSN:       dsn,
		DBMaxOpenConns:    5,
		DBMaxIdleConns:    2,
		DBConnMaxLifetime: time.Minute,
		DBQueryTimeout:    5 * time.Second,
	})
	require.NoError(t, err)
	defer database.Close(db)
	require.NoError(t, database.Migrate(db))

	vendor := seedUser(t, db, "v@example.com", models.UserTypeVendor)
	customer := seedUser(t, db, "c@example.com", models.UserTypeCustomer)
	a := seedProduct(t, db, vendor.ID, "A", "19.99")
	b := seedProduct(t, db, vendor.ID, "B", "0.01")

	store := repositories.NewGORMStore(db, 5*time.Second)
	order := newOrder(customer.ID, time.Now().UTC(), item(a, 3), item(b, 7))
	require.NoError(t, repositories.RunInTx(ctx, store, func(tx repositories.Tx) error {
		return tx.Orders().Create(ctx, order)
	}))

	stored, err := store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "60.04", stored.TotalAmount.StringFixed(2))

	ids, err := store.Products().IDsByOwner(ctx, vendor.ID)
	require.NoError(t, err)
	orders, total, err := store.Orders().ListContainingProducts(ctx, ids, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, orders, 1)

	err = store.Orders().Create(ctx, newOrder(9999, time.Now().UTC(), item(a, 1)))
	assert.Error(t, err)
}
