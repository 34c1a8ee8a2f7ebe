package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"pasar/internal/dto"
	"pasar/internal/middleware"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const maxProductImages = 10

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the product routes. Listing and reading are public.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/my", auth, h.HandleListMyProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", auth, h.HandleCreateProduct)
	productRoutes.Put("/:id", auth, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", auth, h.HandleDeleteProduct)
}

// HandleListProducts lists the catalog.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	q, err := parseListQuery(c, h.validate)
	if err != nil {
		return validationFailed(c, err)
	}
	page, err := h.service.ListProducts(c.UserContext(), q.Page, q.Limit)
	if err != nil {
		return serviceError(c, h.logger, err, fiber.StatusNotFound)
	}
	return c.JSON(dto.NewProductListResponse(page))
}

// HandleListMyProducts lists the authenticated vendor's products.
func (h *ProductHandler) HandleListMyProducts(c *fiber.Ctx) error {
	q, err := parseListQuery(c, h.validate)
	if err != nil {
		return validationFailed(c, err)
	}
	page, err := h.service.ListOwnerProducts(c.UserContext(), middleware.UserID(c), q.Page, q.Limit)
	if err != nil {
		return serviceError(c, h.logger, err, fiber.StatusNotFound)
	}
	return c.JSON(dto.NewProductListResponse(page))
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return serviceError(c, h.logger, err, fiber.StatusNotFound)
	}
	return c.JSON(dto.NewProductResponse(product))
}

// HandleCreateProduct creates a product from a multipart form with optional
// "images" files.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	in, err := h.productInput(c)
	if err != nil {
		return err
	}

	var images []services.ImageUpload
	if form, err := c.MultipartForm(); err == nil {
		files := form.File["images"]
		if len(files) > maxProductImages {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": fmt.Sprintf("at most %d images are allowed", maxProductImages),
			})
		}
		for _, fh := range files {
			f, err := fh.Open()
			if err != nil {
				return badRequestBody(c, err)
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return badRequestBody(c, err)
			}
			images = append(images, services.ImageUpload{Filename: fh.Filename, Data: data})
		}
	}

	product, err := h.service.CreateProduct(c.UserContext(), middleware.UserID(c), in, images)
	if err != nil {
		return serviceError(c, h.logger, err, fiber.StatusNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewProductResponse(product))
}

// HandleUpdateProduct replaces the editable fields of an owned product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	in, err := h.productInput(c)
	if err != nil {
		return err
	}
	product, err := h.service.UpdateProduct(c.UserContext(), middleware.UserID(c), id, in)
	if err != nil {
		return serviceError(c, h.logger, err, fiber.StatusNotFound)
	}
	return c.JSON(dto.NewProductResponse(product))
}

// HandleDeleteProduct removes an owned product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteProduct(c.UserContext(), middleware.UserID(c), id); err != nil {
		return serviceError(c, h.logger, err, fiber.StatusNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// productInput parses and validates the product fields. Failures are returned
// as *fiber.Error so the app error handler renders them.
func (h *ProductHandler) productInput(c *fiber.Ctx) (services.ProductInput, error) {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return services.ProductInput{}, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Description != nil && *req.Description == "" {
		req.Description = nil
	}
	if err := h.validate.Struct(req); err != nil {
		return services.ProductInput{}, fiber.NewError(fiber.StatusBadRequest, fieldErrorsMessage(err))
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return services.ProductInput{}, fiber.NewError(fiber.StatusBadRequest, "price must be a number")
	}
	return services.ProductInput{Name: req.Name, Description: req.Description, Price: price}, nil
}

func productID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}
	return uint(id), nil
}
