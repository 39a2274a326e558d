package events

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/domain/providers"
)

// ErrChannelMismatch is returned when an event is published on a channel
// that does not carry its type
var ErrChannelMismatch = errors.New("event type does not belong to channel")

// ChannelFor returns the channel that carries eventType, or "" when no
// channel claims it
func ChannelFor(eventType entities.EventType) string {
	switch {
	case strings.HasPrefix(string(eventType), "reservation."):
		return providers.EventChannelReservations
	case strings.HasPrefix(string(eventType), "user."):
		return providers.EventChannelUsers
	}
	return ""
}

func checkChannel(channel string, event *entities.Event) error {
	if event == nil {
		return errors.New("nil event")
	}
	if want := ChannelFor(event.Type); want != "" && want != channel {
		return fmt.Errorf("%w: %s on %s", ErrChannelMismatch, event.Type, channel)
	}
	return nil
}
