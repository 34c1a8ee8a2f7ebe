package handlers

import (
	"log/slog"
	"strconv"

	"pasar/internal/dto"
	"pasar/internal/middleware"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the order routes behind auth.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Post("/", h.HandlePlaceOrder)
	orderRoutes.Get("/my", h.HandleListMyOrders)
	orderRoutes.Get("/vendor", h.HandleListVendorOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
}

// HandlePlaceOrder places an order for the authenticated customer.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	var req dto.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	order, err := h.service.PlaceOrder(c.UserContext(), services.PlaceOrderInput{
		CustomerID:      middleware.UserID(c),
		ShippingAddress: req.ShippingAddress,
		Lines:           req.CartLines(),
	})
	if err != nil {
		// A missing product is the caller's mistake here, not a missing resource.
		return serviceError(c, h.logger, err, fiber.StatusBadRequest)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewOrderResponse(order))
}

// HandleListMyOrders lists the orders placed by the authenticated customer.
func (h *OrderHandler) HandleListMyOrders(c *fiber.Ctx) error {
	q, err := parseListQuery(c, h.validate)
	if err != nil {
		return validationFailed(c, err)
	}
	page, err := h.service.ListCustomerOrders(c.UserContext(), middleware.UserID(c), q.Page, q.Limit)
	if err != nil {
		return serviceError(c, h.logger, err, fiber.StatusNotFound)
	}
	return c.JSON(dto.NewOrderListResponse(page))
}

// HandleListVendorOrders lists the orders containing the authenticated vendor's products.
func (h *OrderHandler) HandleListVendorOrders(c *fiber.Ctx) error {
	q, err := parseListQuery(c, h.validate)
	if err != nil {
		return validationFailed(c, err)
	}
	page, err := h.service.ListVendorOrders(c.UserContext(), middleware.UserID(c), q.Page, q.Limit)
	if err != nil {
		return serviceError(c, h.logger, err, fiber.StatusNotFound)
	}
	return c.JSON(dto.NewOrderListResponse(page))
}

// HandleGetOrder retrieves one of the authenticated customer's orders.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}
	order, err := h.service.GetOrder(c.UserContext(), middleware.UserID(c), uint(id))
	if err != nil {
		return serviceError(c, h.logger, err, fiber.StatusNotFound)
	}
	return c.JSON(dto.NewOrderResponse(order))
}
