package dto

import (
	"pasar/internal/services"
)

// SignupRequest represents the request body for signup.
type SignupRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1"`
	LastName  string `json:"last_name" validate:"required,min=1"`
	UserType  string `json:"user_type" validate:"required,oneof=customer vendor"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// OrderItemRequest is one cart line.
type OrderItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"gt=0,lte=10000"`
}

// PlaceOrderRequest represents the request body for placing an order.
type PlaceOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string             `json:"shipping_address" validate:"required,min=1"`
}

// CartLines converts the request items into service cart lines, preserving order.
func (r PlaceOrderRequest) CartLines() []services.CartLine {
	lines := make([]services.CartLine, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, services.CartLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}

// ListQuery holds the pagination query parameters of list endpoints.
type ListQuery struct {
	Page  int `query:"page" validate:"min=1"`
	Limit int `query:"limit" validate:"min=1,max=100"`
}

// NewListQuery returns a ListQuery filled with the defaults.
func NewListQuery() ListQuery {
	return ListQuery{Page: services.DefaultPage, Limit: services.DefaultLimit}
}

// ProductRequest holds the form fields of a product create or update.
type ProductRequest struct {
	Name        string  `json:"name" form:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description" form:"description" validate:"omitempty,max=500"`
	Price       string  `json:"price" form:"price" validate:"required,numeric"`
}
