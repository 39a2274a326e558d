package repositories

import (
	"context"

	"github.com/zatekoja/facilityreservation/internal/domain/entities"
)

// FacilityFilter narrows facility listings
type FacilityFilter struct {
	ManagerID string
}

// FacilityRepository defines the interface for facility data operations
type FacilityRepository interface {
	// Create creates a new facility
	Create(ctx context.Context, facility *entities.Facility) error

	// GetByID retrieves a facility by ID
	GetByID(ctx context.Context, id string) (*entities.Facility, error)

	// List retrieves facilities in creation order
	List(ctx context.Context, filter FacilityFilter) ([]*entities.Facility, error)

	// AddBlockedDate appends date to the facility's blocked dates unless present
	AddBlockedDate(ctx context.Context, id, date string) error

	// RemoveBlockedDate removes date from the facility's blocked dates if present
	RemoveBlockedDate(ctx context.Context, id, date string) error
}
