package dto

import (
	"time"

	"pasar/internal/models"
	"pasar/internal/services"
)

// OrderItemResponse is one line of an order as returned to clients.
type OrderItemResponse struct {
	ID           uint    `json:"id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	Quantity     int     `json:"quantity"`
	TotalPrice   float64 `json:"total_price"`
}

// OrderResponse is an order with its items as returned to clients.
type OrderResponse struct {
	ID              uint                `json:"id"`
	CustomerID      uint                `json:"customer_id"`
	Items           []OrderItemResponse `json:"items"`
	TotalAmount     float64             `json:"total_amount"`
	ShippingAddress string              `json:"shipping_address"`
	Status          string              `json:"status"`
	CreatedAtUTC    time.Time           `json:"created_at_utc"`
}

// OrderListResponse is one page of orders.
type OrderListResponse struct {
	Orders     []OrderResponse `json:"orders"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
}

// NewOrderResponse maps an order aggregate to its response shape. It does not
// modify order.
func NewOrderResponse(order *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice.InexactFloat64(),
			Quantity:     item.Quantity,
			TotalPrice:   item.TotalPrice.InexactFloat64(),
		})
	}
	return OrderResponse{
		ID:              order.ID,
		CustomerID:      order.CustomerID,
		Items:           items,
		TotalAmount:     order.TotalAmount.InexactFloat64(),
		ShippingAddress: order.ShippingAddress,
		Status:          order.Status,
		CreatedAtUTC:    order.CreatedAt.UTC(),
	}
}

// NewOrderListResponse maps a page of orders to its response shape.
func NewOrderListResponse(page *services.Page[models.Order]) OrderListResponse {
	orders := make([]OrderResponse, 0, len(page.Items))
	for i := range page.Items {
		orders = append(orders, NewOrderResponse(&page.Items[i]))
	}
	return OrderListResponse{
		Orders:     orders,
		Total:      page.Total,
		Page:       page.Page,
		TotalPages: page.TotalPages,
	}
}
