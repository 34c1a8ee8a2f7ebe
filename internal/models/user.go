package models

import "time"

// UserType distinguishes buyers from sellers.
type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeVendor   UserType = "vendor"
)

// User represents an account in the store.
type User struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Email           string    `json:"email" gorm:"uniqueIndex;type:varchar(120);not null"`
	PasswordHash    string    `json:"-" gorm:"type:varchar(255);not null"` // never serialized
	FirstName       string    `json:"first_name" gorm:"type:varchar(50);not null"`
	LastName        string    `json:"last_name" gorm:"type:varchar(50);not null"`
	UserType        UserType  `json:"user_type" gorm:"type:varchar(20);not null"`
	IsEmailVerified bool      `json:"is_email_verified" gorm:"not null;default:false"`
	CreatedAt       time.Time `json:"created_at_utc"`
}
