package events

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/domain/providers"
)

// ErrBusClosed is returned when publishing or subscribing after Close
var ErrBusClosed = errors.New("event bus closed")

const subscriberBuffer = 100

// MemoryEventBus implements EventBus in process. Delivery is best effort:
// a subscriber whose buffer is full misses the event.
type MemoryEventBus struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.Event]struct{}
	closed      bool
}

// NewMemoryEventBus creates an in-process event bus
func NewMemoryEventBus() providers.EventBus {
	return &MemoryEventBus{
		subscribers: make(map[string]map[chan *entities.Event]struct{}),
	}
}

// Publish delivers event to every current subscriber of channel
func (b *MemoryEventBus) Publish(ctx context.Context, channel string, event *entities.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}
	if err := checkChannel(channel, event); err != nil {
		return err
	}

	for subscriber := range b.subscribers[channel] {
		select {
		case subscriber <- event:
		default:
			log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("Subscriber channel full, skipping event")
		}
	}
	return nil
}

// Subscribe returns a channel of events that is closed when ctx is done,
// on Unsubscribe, or on Close
func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.Event, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBusClosed
	}
	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.Event]struct{})
	}
	eventChan := make(chan *entities.Event, subscriberBuffer)
	b.subscribers[channel][eventChan] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.removeSubscriber(channel, eventChan)
	}()

	return eventChan, nil
}

func (b *MemoryEventBus) removeSubscriber(channel string, eventChan chan *entities.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers, ok := b.subscribers[channel]
	if !ok {
		return
	}
	if _, ok := subscribers[eventChan]; !ok {
		return
	}
	delete(subscribers, eventChan)
	close(eventChan)
	if len(subscribers) == 0 {
		delete(b.subscribers, channel)
	}
}

// Unsubscribe closes every subscription on channel
func (b *MemoryEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for subscriber := range b.subscribers[channel] {
		close(subscriber)
	}
	delete(b.subscribers, channel)
	return nil
}

// Close closes all subscriptions; later calls are no-ops
func (b *MemoryEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for channel, subscribers := range b.subscribers {
		for subscriber := range subscribers {
			close(subscriber)
		}
		delete(b.subscribers, channel)
	}
	return nil
}
