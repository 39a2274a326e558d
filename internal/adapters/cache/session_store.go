package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/domain/providers"
	"github.com/zatekoja/facilityreservation/internal/domain/repositories"
	apperrors "github.com/zatekoja/facilityreservation/pkg/errors"
)

const sessionKeyPrefix = "session:"

// SessionStore implements SessionRepository on top of a CacheProvider, so
// sessions live in process or in Redis depending on the provider.
type SessionStore struct {
	cache providers.CacheProvider
}

// NewSessionStore creates a session store
func NewSessionStore(cache providers.CacheProvider) repositories.SessionRepository {
	return &SessionStore{cache: cache}
}

// SessionKey returns the cache key of a session
func SessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Save stores a session for ttl
func (s *SessionStore) Save(ctx context.Context, session *entities.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return apperrors.NewInternalError("failed to encode session", err)
	}
	if err := s.cache.Set(ctx, SessionKey(session.ID), data, ttl); err != nil {
		return apperrors.NewInternalError("failed to save session", err)
	}
	return nil
}

// Get retrieves a live session by ID
func (s *SessionStore) Get(ctx context.Context, id string) (*entities.Session, error) {
	data, err := s.cache.Get(ctx, SessionKey(id))
	if errors.Is(err, providers.ErrCacheMiss) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("session %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load session", err)
	}

	var session entities.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, apperrors.NewInternalError("failed to decode session", err)
	}
	if session.Expired(time.Now()) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("session %s not found", id))
	}
	return &session, nil
}

// Delete removes a session
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, SessionKey(id)); err != nil {
		return apperrors.NewInternalError("failed to delete session", err)
	}
	return nil
}
