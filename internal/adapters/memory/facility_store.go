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

// FacilityStore is an in-process FacilityRepository
type FacilityStore struct {
	mu         sync.RWMutex
	facilities []*entities.Facility
}

// NewFacilityStore creates a facility store holding copies of facilities
func NewFacilityStore(facilities ...*entities.Facility) *FacilityStore {
	s := &FacilityStore{}
	for _, f := range facilities {
		s.facilities = append(s.facilities, f.Clone())
	}
	return s
}

// Create creates a new facility
func (s *FacilityStore) Create(ctx context.Context, facility *entities.Facility) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(facility.ID) != nil {
		return apperrors.NewConflictError(fmt.Sprintf("facility with id %s already exists", facility.ID))
	}
	s.facilities = append(s.facilities, facility.Clone())
	return nil
}

// GetByID retrieves a facility by ID
func (s *FacilityStore) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if f := s.find(id); f != nil {
		return f.Clone(), nil
	}
	return nil, apperrors.NewNotFoundError("Facility not found")
}

// List retrieves facilities in creation order
func (s *FacilityStore) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.Facility, 0, len(s.facilities))
	for _, f := range s.facilities {
		if filter.ManagerID != "" && f.ManagerID != filter.ManagerID {
			continue
		}
		out = append(out, f.Clone())
	}
	return out, nil
}

// AddBlockedDate appends date to the facility's blocked dates unless present
func (s *FacilityStore) AddBlockedDate(ctx context.Context, id, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.find(id)
	if f == nil {
		return apperrors.NewNotFoundError("Facility not found")
	}
	if !f.IsBlocked(date) {
		f.BlockedDates = append(f.BlockedDates, date)
	}
	return nil
}

// RemoveBlockedDate removes date from the facility's blocked dates if present
func (s *FacilityStore) RemoveBlockedDate(ctx context.Context, id, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.find(id)
	if f == nil {
		return apperrors.NewNotFoundError("Facility not found")
	}
	f.BlockedDates = slices.DeleteFunc(f.BlockedDates, func(d string) bool { return d == date })
	return nil
}

func (s *FacilityStore) find(id string) *entities.Facility {
	for _, f := range s.facilities {
		if f.ID == id {
			return f
		}
	}
	return nil
}
