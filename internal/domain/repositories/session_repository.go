package repositories

import (
	"context"
	"time"

	"github.com/zatekoja/facilityreservation/internal/domain/entities"
)

// SessionRepository stores issued sessions until they expire or are deleted
type SessionRepository interface {
	// Save stores a session for ttl
	Save(ctx context.Context, session *entities.Session, ttl time.Duration) error

	// Get retrieves a live session by ID
	Get(ctx context.Context, id string) (*entities.Session, error)

	// Delete removes a session; deleting an unknown session is not an error
	Delete(ctx context.Context, id string) error
}
