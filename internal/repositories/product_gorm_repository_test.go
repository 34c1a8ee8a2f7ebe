package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMProductRepository_FindByIDs(t *testing.T) {
	db := newTestDB(t)
	vendor := seedUser(t, db, "v@example.com", models.UserTypeVendor)
	a := seedProduct(t, db, vendor.ID, "A", "1.00")
	b := seedProduct(t, db, vendor.ID, "B", "2.00")

	repo := repositories.NewGORMProductRepository(db, time.Second)
	found, err := repo.FindByIDs(context.Background(), []uint{a.ID, b.ID, 999})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGORMProductRepository_DeleteHidesProduct(t *testing.T) {
	db := newTestDB(t)
	vendor := seedUser(t, db, "v@example.com", models.UserTypeVendor)
	other := seedUser(t, db, "o@example.com", models.UserTypeVendor)
	p := seedProduct(t, db, vendor.ID, "A", "1.00")
	ctx := context.Background()

	repo := repositories.NewGORMProductRepository(db, time.Second)
	err := repo.Delete(ctx, p.ID, other.ID)
	assert.True(t, errors.Is(err, repositories.ErrNotFound), "only the owner may delete")

	require.NoError(t, repo.Delete(ctx, p.ID, vendor.ID))
	found, err := repo.FindByIDs(ctx, []uint{p.ID})
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = repo.GetByID(ctx, p.ID)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestGORMProductRepository_UpdatePrice(t *testing.T) {
	db := newTestDB(t)
	vendor := seedUser(t, db, "v@example.com", models.UserTypeVendor)
	p := seedProduct(t, db, vendor.ID, "A", "10.00")
	ctx := context.Background()

	repo := repositories.NewGORMProductRepository(db, time.Second)
	p.Price = decimal.RequireFromString("20.00")
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(20)))

	err = repo.Update(ctx, &models.Product{ID: 999, Name: "x", Price: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestGORMProductRepository_ListAndOwnership(t *testing.T) {
	db := newTestDB(t)
	v1 := seedUser(t, db, "v1@example.com", models.UserTypeVendor)
	v2 := seedUser(t, db, "v2@example.com", models.UserTypeVendor)
	ctx := context.Background()

	repo := repositories.NewGORMProductRepository(db, time.Second)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var created []uint
	for i, owner := range []uint{v1.ID, v1.ID, v2.ID} {
		p := &models.Product{
			Name:      "P",
			Price:     decimal.NewFromInt(int64(i + 1)),
			OwnerID:   owner,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Images:    []models.ProductImage{{URL: "http://img/" + string(rune('a'+i)), IsPrimary: true}},
		}
		require.NoError(t, repo.Create(ctx, p))
		created = append(created, p.ID)
	}

	all, total, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 2)
	assert.Equal(t, created[2], all[0].ID)
	assert.Len(t, all[0].Images, 1)

	mine, total, err := repo.ListByOwner(ctx, v1.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, mine, 2)

	ids, err := repo.IDsByOwner(ctx, v2.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{created[2]}, ids)

	ids, err = repo.IDsByOwner(ctx, 12345)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
