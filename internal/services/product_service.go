package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/storage"

	"github.com/shopspring/decimal"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo    repositories.ProductRepository
	content storage.ContentStore
	logger  *slog.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, content storage.ContentStore, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:    repo,
		content: content,
		logger:  logger,
	}
}

// ImageUpload is one image file submitted with a new product.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// ProductInput carries the editable fields of a product.
type ProductInput struct {
	Name        string
	Description *string
	Price       decimal.Decimal
}

// MaxPrice is the largest price a decimal(10,2) column holds.
var MaxPrice = decimal.RequireFromString("99999999.99")

// normalize trims the name and rounds the price to cents, then validates the
// result so a price that rounds to zero is rejected.
func (in ProductInput) normalize() (ProductInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Price = in.Price.Round(2)
	if in.Name == "" || len(in.Name) > 100 {
		return in, validationErrorf("name must be between 1 and 100 characters")
	}
	if in.Description != nil && len(*in.Description) > 500 {
		return in, validationErrorf("description must be at most 500 characters")
	}
	if !in.Price.IsPositive() {
		return in, validationErrorf("price must be at least 0.01")
	}
	if in.Price.GreaterThan(MaxPrice) {
		return in, validationErrorf("price must be at most %s", MaxPrice.StringFixed(2))
	}
	return in, nil
}

// CreateProduct uploads the images and stores the product with them. The first
// image is the primary one.
func (s *ProductService) CreateProduct(ctx context.Context, ownerID uint, in ProductInput, images []ImageUpload) (*models.Product, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		OwnerID:     ownerID,
	}

	var saved []string
	for i, img := range images {
		name := storage.ImageObjectName(img.Filename)
		url, err := s.content.Save(ctx, name, img.Data)
		if err != nil {
			s.discard(ctx, saved)
			return nil, fmt.Errorf("failed to process image %d: %w", i+1, err)
		}
		saved = append(saved, name)
		product.Images = append(product.Images, models.ProductImage{URL: url, IsPrimary: i == 0})
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.discard(ctx, saved)
		s.logger.Error("failed to create product", "owner_id", ownerID, "error", err)
		return nil, ErrPersistence
	}
	return product, nil
}

func (s *ProductService) discard(ctx context.Context, names []string) {
	for _, name := range names {
		if err := s.content.Delete(ctx, name); err != nil {
			s.logger.Warn("failed to remove orphaned image", "name", name, "error", err)
		}
	}
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, "failed to get product", id)
	}
	return product, nil
}

// UpdateProduct changes a product owned by ownerID. Orders already placed keep
// the name and price they were placed with.
func (s *ProductService) UpdateProduct(ctx context.Context, ownerID, id uint, in ProductInput) (*models.Product, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, "failed to get product", id)
	}
	if product.OwnerID != ownerID {
		return nil, ErrProductNotFound
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, s.mapLookupError(err, "failed to update product", id)
	}
	return product, nil
}

// DeleteProduct removes a product owned by ownerID from the catalog.
func (s *ProductService) DeleteProduct(ctx context.Context, ownerID, id uint) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return s.mapLookupError(err, "failed to delete product", id)
	}
	return nil
}

// ListProducts returns one page of the catalog, newest first.
func (s *ProductService) ListProducts(ctx context.Context, page, limit int) (*Page[models.Product], error) {
	if err := validatePage(page, limit); err != nil {
		return nil, err
	}
	products, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		s.logger.Error("failed to list products", "error", err)
		return nil, ErrPersistence
	}
	return newPage(products, total, page, limit), nil
}

// ListOwnerProducts returns one page of ownerID's products, newest first.
func (s *ProductService) ListOwnerProducts(ctx context.Context, ownerID uint, page, limit int) (*Page[models.Product], error) {
	if err := validatePage(page, limit); err != nil {
		return nil, err
	}
	products, total, err := s.repo.ListByOwner(ctx, ownerID, page, limit)
	if err != nil {
		s.logger.Error("failed to list owner products", "owner_id", ownerID, "error", err)
		return nil, ErrPersistence
	}
	return newPage(products, total, page, limit), nil
}

func (s *ProductService) mapLookupError(err error, msg string, id uint) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrProductNotFound
	}
	s.logger.Error(msg, "product_id", id, "error", err)
	return ErrPersistence
}
