package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/domain/repositories"
	apperrors "github.com/zatekoja/facilityreservation/pkg/errors"
)

// ReservationStore is an in-process, append-only ReservationRepository
type ReservationStore struct {
	mu           sync.RWMutex
	reservations []*entities.Reservation
}

// NewReservationStore creates an empty reservation store
func NewReservationStore() *ReservationStore {
	return &ReservationStore{}
}

// Create appends a new reservation
func (s *ReservationStore) Create(ctx context.Context, reservation *entities.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(reservation.ID) != nil {
		return apperrors.NewConflictError(fmt.Sprintf("reservation with id %s already exists", reservation.ID))
	}
	s.reservations = append(s.reservations, reservation.Clone())
	return nil
}

// GetByID retrieves a reservation by ID
func (s *ReservationStore) GetByID(ctx context.Context, id string) (*entities.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r := s.find(id); r != nil {
		return r.Clone(), nil
	}
	return nil, apperrors.NewNotFoundError("Reservation not found")
}

// List retrieves reservations in creation order
func (s *ReservationStore) List(ctx context.Context, filter repositories.ReservationFilter) ([]*entities.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.Reservation, 0)
	for _, r := range s.reservations {
		if filter.FacilityIDs != nil && !slices.Contains(filter.FacilityIDs, r.FacilityID) {
			continue
		}
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, r.Clone())
	}
	return out, nil
}

// UpdateStatus sets the status of a reservation
func (s *ReservationStore) UpdateStatus(ctx context.Context, id string, status entities.ReservationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.find(id)
	if r == nil {
		return apperrors.NewNotFoundError("Reservation not found")
	}
	r.Status = status
	return nil
}

func (s *ReservationStore) find(id string) *entities.Reservation {
	for _, r := range s.reservations {
		if r.ID == id {
			return r
		}
	}
	return nil
}
