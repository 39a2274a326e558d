package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/domain/repositories"
	apperrors "github.com/zatekoja/facilityreservation/pkg/errors"
)

// UserStore is an in-process UserRepository. Users are kept in registration order.
type UserStore struct {
	mu    sync.RWMutex
	users []*entities.User
}

// NewUserStore creates a user store holding copies of users
func NewUserStore(users ...*entities.User) *UserStore {
	s := &UserStore{}
	for _, u := range users {
		s.users = append(s.users, u.Clone())
	}
	return s
}

// Create creates a new user
func (s *UserStore) Create(ctx context.Context, user *entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(user.ID) >= 0 {
		return apperrors.NewConflictError(fmt.Sprintf("user with id %s already exists", user.ID))
	}
	s.users = append(s.users, user.Clone())
	return nil
}

// GetByID retrieves a user by ID
func (s *UserStore) GetByID(ctx context.Context, id string) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.users[i].Clone(), nil
	}
	return nil, apperrors.NewNotFoundError("User not found")
}

// GetByEmail retrieves the first user registered with email
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, apperrors.NewNotFoundError("User not found")
}

// List retrieves users in registration order
func (s *UserStore) List(ctx context.Context, filter repositories.UserFilter) ([]*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.User, 0, len(s.users))
	for _, u := range s.users {
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, u.Clone())
	}
	return out, nil
}

// UpdateStatus sets the status of a user
func (s *UserStore) UpdateStatus(ctx context.Context, id string, status entities.UserStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return apperrors.NewNotFoundError("User not found")
	}
	s.users[i].Status = status
	return nil
}

func (s *UserStore) indexOf(id string) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
