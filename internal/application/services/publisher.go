package services

import (
	"context"

	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/domain/providers"
	"github.com/zatekoja/facilityreservation/internal/infrastructure/observability"
)

// publisher sends lifecycle events. A nil bus or a failed publish never
// fails the calling operation.
type publisher struct {
	bus providers.EventBus
}

func (p publisher) publish(ctx context.Context, channel string, event *entities.Event) {
	if p.bus == nil {
		return
	}
	if err := p.bus.Publish(ctx, channel, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("channel", channel).
			Str("event_type", string(event.Type)).
			Str("subject_id", event.SubjectID).
			Msg("Failed to publish event")
	}
}

func actorID(u *entities.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
