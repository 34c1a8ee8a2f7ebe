package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pasar/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db      *gorm.DB
	timeout time.Duration
	txCtx   context.Context // set when bound to a transaction
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB, timeout time.Duration) *GORMProductRepository {
	return &GORMProductRepository{
		db:      db,
		timeout: timeout,
	}
}

// FindByIDs retrieves all products whose ID is in ids with a single query.
func (r *GORMProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	ctx, cancel := scope(ctx, r.timeout, r.txCtx)
	defer cancel()

	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}
	return products, nil
}

// IDsByOwner returns the IDs of every product owned by ownerID, including deleted
// ones so their past orders stay visible to the vendor.
func (r *GORMProductRepository) IDsByOwner(ctx context.Context, ownerID uint) ([]uint, error) {
	ctx, cancel := scope(ctx, r.timeout, r.txCtx)
	defer cancel()

	var ids []uint
	if err := r.db.WithContext(ctx).Unscoped().Model(&models.Product{}).Where("owner_id = ?", ownerID).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to get product IDs for owner %d: %w", ownerID, err)
	}
	return ids, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	ctx, cancel := scope(ctx, r.timeout, r.txCtx)
	defer cancel()

	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Images").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create inserts a product together with its images.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := scope(ctx, r.timeout, r.txCtx)
	defer cancel()

	if err := r.db.WithContext(ctx).Omit("Owner").Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product's catalog fields.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	ctx, cancel := scope(ctx, r.timeout, r.txCtx)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d for update: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete soft-deletes a product owned by ownerID. Past order items keep their snapshot.
func (r *GORMProductRepository) Delete(ctx context.Context, id, ownerID uint) error {
	ctx, cancel := scope(ctx, r.timeout, r.txCtx)
	defer cancel()

	res := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// List returns one page of the catalog, newest first, and the catalog size.
func (r *GORMProductRepository) List(ctx context.Context, page, limit int) ([]models.Product, int64, error) {
	return r.list(ctx, nil, page, limit)
}

// ListByOwner returns one page of ownerID's products, newest first, and their count.
func (r *GORMProductRepository) ListByOwner(ctx context.Context, ownerID uint, page, limit int) ([]models.Product, int64, error) {
	return r.list(ctx, &ownerID, page, limit)
}

func (r *GORMProductRepository) list(ctx context.Context, ownerID *uint, page, limit int) ([]models.Product, int64, error) {
	ctx, cancel := scope(ctx, r.timeout, r.txCtx)
	defer cancel()

	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Product{})
		if ownerID != nil {
			q = q.Where("owner_id = ?", *ownerID)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	products := []models.Product{}
	err := base().
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("product_images.id ASC") }).
		Order("created_at DESC").Order("id DESC").
		Offset(offset(page, limit)).Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}
