package auth

import (
	"context"

	"warestock/internal/core/id"
)

// UserRepository defines user storage operations.
type UserRepository interface {
	// Create creates a new user.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, userID id.ID) (*User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update updates user data.
	Update(ctx context.Context, user *User) error

	// SetActive enables or disables a user account.
	SetActive(ctx context.Context, userID id.ID, active bool) error

	// List retrieves users with filtering.
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)

	// ExistsByEmail checks if an email is already registered.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
