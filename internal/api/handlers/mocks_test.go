package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/facilityreservation/internal/application/services"
	"github.com/zatekoja/facilityreservation/internal/domain/entities"
)

type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*services.AuthResult)
	return res, args.Error(1)
}

func (m *MockIdentityService) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*services.AuthResult)
	return res, args.Error(1)
}

func (m *MockIdentityService) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockIdentityService) ApproveUser(ctx context.Context, actor *entities.User, id string) (*entities.User, error) {
	args := m.Called(ctx, actor, id)
	u, _ := args.Get(0).(*entities.User)
	return u, args.Error(1)
}

func (m *MockIdentityService) BlockUser(ctx context.Context, actor *entities.User, id string) (*entities.User, error) {
	args := m.Called(ctx, actor, id)
	u, _ := args.Get(0).(*entities.User)
	return u, args.Error(1)
}

func (m *MockIdentityService) PendingUsers(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	u, _ := args.Get(0).([]*entities.User)
	return u, args.Error(1)
}

func (m *MockIdentityService) ListUsers(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	u, _ := args.Get(0).([]*entities.User)
	return u, args.Error(1)
}

type MockFacilityService struct {
	mock.Mock
}

func (m *MockFacilityService) AddFacility(ctx context.Context, manager *entities.User, in services.FacilityInput) (*entities.Facility, error) {
	args := m.Called(ctx, manager, in)
	f, _ := args.Get(0).(*entities.Facility)
	return f, args.Error(1)
}

func (m *MockFacilityService) GetFacility(ctx context.Context, id string) (*entities.Facility, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(*entities.Facility)
	return f, args.Error(1)
}

func (m *MockFacilityService) ListFacilities(ctx context.Context) ([]*entities.Facility, error) {
	args := m.Called(ctx)
	f, _ := args.Get(0).([]*entities.Facility)
	return f, args.Error(1)
}

func (m *MockFacilityService) FacilitiesByManager(ctx context.Context, managerID string) ([]*entities.Facility, error) {
	args := m.Called(ctx, managerID)
	f, _ := args.Get(0).([]*entities.Facility)
	return f, args.Error(1)
}

func (m *MockFacilityService) BlockDate(ctx context.Context, facilityID, date string) (*entities.Facility, error) {
	args := m.Called(ctx, facilityID, date)
	f, _ := args.Get(0).(*entities.Facility)
	return f, args.Error(1)
}

func (m *MockFacilityService) UnblockDate(ctx context.Context, facilityID, date string) (*entities.Facility, error) {
	args := m.Called(ctx, facilityID, date)
	f, _ := args.Get(0).(*entities.Facility)
	return f, args.Error(1)
}

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) CreateReservation(ctx context.Context, caller *entities.User, facilityID string, dates []string, reason string) (*services.ReservationResult, error) {
	args := m.Called(ctx, caller, facilityID, dates, reason)
	r, _ := args.Get(0).(*services.ReservationResult)
	return r, args.Error(1)
}

func (m *MockReservationService) ApproveReservation(ctx context.Context, actor *entities.User, id string) (*entities.Reservation, error) {
	args := m.Called(ctx, actor, id)
	r, _ := args.Get(0).(*entities.Reservation)
	return r, args.Error(1)
}

func (m *MockReservationService) DenyReservation(ctx context.Context, actor *entities.User, id string) (*entities.Reservation, error) {
	args := m.Called(ctx, actor, id)
	r, _ := args.Get(0).(*entities.Reservation)
	return r, args.Error(1)
}

func (m *MockReservationService) CancelReservation(ctx context.Context, actor *entities.User, id string) (*entities.Reservation, error) {
	args := m.Called(ctx, actor, id)
	r, _ := args.Get(0).(*entities.Reservation)
	return r, args.Error(1)
}

func (m *MockReservationService) PendingReservations(ctx context.Context) ([]*entities.Reservation, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]*entities.Reservation)
	return r, args.Error(1)
}

func (m *MockReservationService) ReservationsByManager(ctx context.Context, managerID string) ([]*entities.Reservation, error) {
	args := m.Called(ctx, managerID)
	r, _ := args.Get(0).([]*entities.Reservation)
	return r, args.Error(1)
}

func (m *MockReservationService) ReservationsByUser(ctx context.Context, userID string) ([]*entities.Reservation, error) {
	args := m.Called(ctx, userID)
	r, _ := args.Get(0).([]*entities.Reservation)
	return r, args.Error(1)
}

func (m *MockReservationService) Availability(ctx context.Context, facilityID string, dates []string) ([]services.DateAvailability, error) {
	args := m.Called(ctx, facilityID, dates)
	r, _ := args.Get(0).([]services.DateAvailability)
	return r, args.Error(1)
}
