package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/domain/providers"
	redisclient "github.com/zatekoja/facilityreservation/internal/infrastructure/clients/redis"
)

// RedisEventBus carries reservation and user lifecycle events over Redis
// Pub/Sub so every API instance sees them. Each Subscribe call owns its own
// Redis subscription, confirmed before Subscribe returns.
type RedisEventBus struct {
	client *redisclient.Client

	mu            sync.Mutex
	subscriptions map[string]map[*redisSubscription]struct{}
	closed        bool
}

type redisSubscription struct {
	pubsub *redis.PubSub
	events chan *entities.Event
	done   chan struct{}
	once   sync.Once
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	return &RedisEventBus{
		client:        client,
		subscriptions: make(map[string]map[*redisSubscription]struct{}),
	}
}

// Publish sends event to every subscriber of channel on any instance
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.Event) error {
	if b.isClosed() {
		return ErrBusClosed
	}
	if err := checkChannel(channel, event); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	receivers, err := b.client.Client().Publish(ctx, channel, data).Result()
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug().
		Str("channel", channel).
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("subject_id", event.SubjectID).
		Int64("receivers", receivers).
		Msg("Published event")
	return nil
}

// Subscribe returns a channel of events that is closed when ctx is done,
// on Unsubscribe, or on Close
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.Event, error) {
	if b.isClosed() {
		return nil, ErrBusClosed
	}

	pubsub := b.client.Client().Subscribe(context.Background(), channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		events: make(chan *entities.Event, subscriberBuffer),
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		_ = pubsub.Close()
		return nil, ErrBusClosed
	}
	if b.subscriptions[channel] == nil {
		b.subscriptions[channel] = make(map[*redisSubscription]struct{})
	}
	b.subscriptions[channel][sub] = struct{}{}
	count := len(b.subscriptions[channel])
	b.mu.Unlock()

	log.Info().Str("channel", channel).Int("subscribers", count).Msg("Subscribed to channel")

	go sub.forward(channel, pubsub.Channel())
	go func() {
		select {
		case <-ctx.Done():
			b.remove(channel, sub)
		case <-sub.done:
		}
	}()

	return sub.events, nil
}

// forward decodes messages into events until the subscription stops
func (s *redisSubscription) forward(channel string, messages <-chan *redis.Message) {
	defer close(s.events)

	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}

			var event entities.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Warn().Err(err).Str("channel", channel).Msg("Failed to unmarshal event")
				continue
			}

			select {
			case s.events <- &event:
			case <-s.done:
				return
			default:
				log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("Subscriber channel full, skipping event")
			}
		}
	}
}

func (s *redisSubscription) stop() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}

func (b *RedisEventBus) remove(channel string, sub *redisSubscription) {
	b.mu.Lock()
	if subs, ok := b.subscriptions[channel]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(b.subscriptions, channel)
		}
	}
	b.mu.Unlock()

	if err := sub.stop(); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("Failed to close subscription")
	}
}

// Unsubscribe closes every subscription on channel
func (b *RedisEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	subs := b.subscriptions[channel]
	delete(b.subscriptions, channel)
	b.mu.Unlock()

	var errs []error
	for sub := range subs {
		if err := sub.stop(); err != nil {
			errs = append(errs, err)
		}
	}
	log.Info().Str("channel", channel).Int("subscribers", len(subs)).Msg("Unsubscribed from channel")
	return errors.Join(errs...)
}

// Close closes all subscriptions; later calls are no-ops. The Redis client
// itself is owned by the caller.
func (b *RedisEventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subscriptions := b.subscriptions
	b.subscriptions = make(map[string]map[*redisSubscription]struct{})
	b.mu.Unlock()

	var errs []error
	for channel, subs := range subscriptions {
		for sub := range subs {
			if err := sub.stop(); err != nil {
				errs = append(errs, fmt.Errorf("channel %s: %w", channel, err))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing event bus: %w", errors.Join(errs...))
	}

	log.Info().Msg("Redis event bus closed")
	return nil
}

func (b *RedisEventBus) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
