package serviceinterfaces

import (
	"context"

	"civiccare/internal/models"
)

// UserServiceInterface defines account operations for citizens.
type UserServiceInterface interface {
	// CreateUser registers a new account with a bcrypt-hashed password.
	CreateUser(ctx context.Context, email, fullName, password string) (*models.User, error)

	// AuthenticateUser verifies credentials and returns the user on success.
	AuthenticateUser(ctx context.Context, email, password string) (*models.User, error)

	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// CategoryServiceInterface defines operations on complaint categories.
type CategoryServiceInterface interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
}
