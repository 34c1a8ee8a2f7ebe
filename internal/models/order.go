package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusPlaced is the status every order is created with.
const OrderStatusPlaced = "PLACED"

// Order is the header row of an order aggregate.
type Order struct {
	ID              uint            `gorm:"primaryKey"`
	CustomerID      uint            `gorm:"not null;index"`
	Customer        *User           `gorm:"foreignKey:CustomerID"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingAddress string          `gorm:"type:varchar(500);not null"`
	Status          string          `gorm:"type:varchar(20);not null;default:PLACED"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `gorm:"index"`
}

// OrderItem holds the product name and price as they were when the order was placed.
type OrderItem struct {
	ID           uint            `gorm:"primaryKey"`
	OrderID      uint            `gorm:"not null;index"`
	ProductID    uint            `gorm:"not null;index"`
	Product      *Product        `gorm:"foreignKey:ProductID"`
	ProductName  string          `gorm:"type:varchar(100);not null"`
	ProductPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity     int             `gorm:"not null"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// All lists every model managed by the schema migration, parents first.
func All() []interface{} {
	return []interface{}{&User{}, &Product{}, &ProductImage{}, &Order{}, &OrderItem{}}
}
