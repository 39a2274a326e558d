package repositories

import (
	"context"

	"github.com/zatekoja/facilityreservation/internal/domain/entities"
)

// UserFilter narrows user listings
type UserFilter struct {
	Status entities.UserStatus
	Role   entities.UserRole
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail retrieves the first user registered with email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// List retrieves users in registration order
	List(ctx context.Context, filter UserFilter) ([]*entities.User, error)

	// UpdateStatus sets the status of a user
	UpdateStatus(ctx context.Context, id string, status entities.UserStatus) error
}
