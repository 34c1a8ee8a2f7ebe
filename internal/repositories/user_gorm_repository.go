package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pasar/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB, timeout time.Duration) *GORMUserRepository {
	return &GORMUserRepository{
		db:      db,
		timeout: timeout,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := scope(ctx, r.timeout, nil)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email", email)
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return r.first(ctx, "id", id)
}

// MarkEmailVerified sets is_email_verified for the user.
func (r *GORMUserRepository) MarkEmailVerified(ctx context.Context, id uint) error {
	ctx, cancel := scope(ctx, r.timeout, nil)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_email_verified", true)
	if res.Error != nil {
		return fmt.Errorf("failed to verify email of user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with id %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMUserRepository) first(ctx context.Context, column string, arg interface{}) (*models.User, error) {
	ctx, cancel := scope(ctx, r.timeout, nil)
	defer cancel()

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, column+" = ?", arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with %s %v: %w", column, arg, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
