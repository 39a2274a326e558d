package providers

import (
	"context"

	"github.com/zatekoja/facilityreservation/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.Event) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.Event, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelReservations carries reservation lifecycle events
	EventChannelReservations = "reservations:events"

	// EventChannelUsers carries account lifecycle events
	EventChannelUsers = "users:events"
)
