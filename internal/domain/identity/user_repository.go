package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user with roles by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user with roles by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll returns all users with their role assignments
	FindAll(ctx context.Context) ([]*User, error)

	// Save creates or updates a user and its role assignments
	Save(ctx context.Context, user *User) error

	// Delete deletes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByEmail checks if the email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
