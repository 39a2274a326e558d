package repositories

import (
	"context"

	"github.com/zatekoja/facilityreservation/internal/domain/entities"
)

// ReservationFilter narrows reservation listings. Empty fields match everything.
type ReservationFilter struct {
	FacilityIDs []string
	UserID      string
	Status      entities.ReservationStatus
}

// ReservationRepository defines the interface for reservation data operations.
// Reservations are never deleted.
type ReservationRepository interface {
	// Create appends a new reservation
	Create(ctx context.Context, reservation *entities.Reservation) error

	// GetByID retrieves a reservation by ID
	GetByID(ctx context.Context, id string) (*entities.Reservation, error)

	// List retrieves reservations ordered by creation time
	List(ctx context.Context, filter ReservationFilter) ([]*entities.Reservation, error)

	// UpdateStatus sets the status of a reservation
	UpdateStatus(ctx context.Context, id string, status entities.ReservationStatus) error
}
