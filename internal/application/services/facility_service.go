package services

import (
	"context"
	"strings"
	"time"

	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/domain/repositories"
	"github.com/zatekoja/facilityreservation/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/facilityreservation/pkg/errors"
)

// FacilityInput carries the fields a manager supplies for a new facility
type FacilityInput struct {
	Name        string                `json:"name"`
	Type        entities.FacilityType `json:"type"`
	Capacity    int                   `json:"capacity"`
	Price       float64               `json:"price"`
	Description string                `json:"description"`
}

// FacilityService handles business logic for facilities and their blocked dates
type FacilityService struct {
	repo repositories.FacilityRepository
	now  func() time.Time
}

// NewFacilityService creates a new facility service
func NewFacilityService(repo repositories.FacilityRepository) *FacilityService {
	return &FacilityService{
		repo: repo,
		now:  time.Now,
	}
}

// AddFacility creates a facility owned by manager
func (s *FacilityService) AddFacility(ctx context.Context, manager *entities.User, in FacilityInput) (*entities.Facility, error) {
	if manager == nil {
		return nil, apperrors.NewUnauthorizedError("Not logged in")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("Facility name is required")
	}
	if !in.Type.Valid() {
		return nil, apperrors.NewValidationError("Facility type must be Room, ConventionCenter or Unit")
	}
	if in.Capacity < 0 {
		return nil, apperrors.NewValidationError("Capacity must not be negative")
	}
	if in.Price < 0 {
		return nil, apperrors.NewValidationError("Price must not be negative")
	}

	facility := &entities.Facility{
		ID:           entities.NewID(entities.FacilityIDPrefix),
		Name:         name,
		Type:         in.Type,
		ManagerID:    manager.ID,
		Capacity:     in.Capacity,
		Price:        in.Price,
		Description:  in.Description,
		BlockedDates: []string{},
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.Create(ctx, facility); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("facility_id", facility.ID).
		Str("manager_id", manager.ID).
		Msg("Facility added")
	return facility, nil
}

// GetFacility retrieves a facility by ID
func (s *FacilityService) GetFacility(ctx context.Context, id string) (*entities.Facility, error) {
	return s.repo.GetByID(ctx, id)
}

// ListFacilities returns every facility
func (s *FacilityService) ListFacilities(ctx context.Context) ([]*entities.Facility, error) {
	return s.repo.List(ctx, repositories.FacilityFilter{})
}

// FacilitiesByManager returns the facilities owned by managerID
func (s *FacilityService) FacilitiesByManager(ctx context.Context, managerID string) ([]*entities.Facility, error) {
	return s.repo.List(ctx, repositories.FacilityFilter{ManagerID: managerID})
}

// BlockDate makes date unreservable on the facility. Blocking an already
// blocked date is a no-op; existing reservations on that date are untouched.
func (s *FacilityService) BlockDate(ctx context.Context, facilityID, date string) (*entities.Facility, error) {
	if err := entities.ValidateDate(date); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := s.repo.AddBlockedDate(ctx, facilityID, date); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, facilityID)
}

// UnblockDate removes date from the facility's blocked dates
func (s *FacilityService) UnblockDate(ctx context.Context, facilityID, date string) (*entities.Facility, error) {
	if err := s.repo.RemoveBlockedDate(ctx, facilityID, date); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, facilityID)
}
