package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a product in the catalog.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null"`
	Description *string         `json:"description" gorm:"type:varchar(500)"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	OwnerID     uint            `json:"owner_id" gorm:"not null;index"`
	Owner       *User           `json:"-" gorm:"foreignKey:OwnerID"`
	Images      []ProductImage  `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `json:"created_at_utc" gorm:"index"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
}

// ProductImage is an uploaded picture of a product; the first one uploaded is primary.
type ProductImage struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	ProductID uint      `json:"-" gorm:"not null;index"`
	URL       string    `json:"url" gorm:"type:varchar(500);not null"`
	IsPrimary bool      `json:"is_primary" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"-"`
}
