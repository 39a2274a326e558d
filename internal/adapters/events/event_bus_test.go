package events

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/domain/providers"
	redisclient "github.com/zatekoja/facilityreservation/internal/infrastructure/clients/redis"
)

func receive(t *testing.T, ch <-chan *entities.Event) *entities.Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		require.True(t, ok, "channel closed")
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestMemoryEventBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx, providers.EventChannelReservations)
	require.NoError(t, err)

	event := entities.NewEvent(entities.EventTypeReservationCreated, "res-1", "client-1", nil)
	require.NoError(t, bus.Publish(ctx, providers.EventChannelReservations, event))
	require.NoError(t, bus.Publish(ctx, providers.EventChannelUsers, entities.NewEvent(entities.EventTypeUserApproved, "u-1", "head-1", nil)))

	got := receive(t, ch)
	assert.Equal(t, "res-1", got.SubjectID)

	select {
	case e := <-ch:
		t.Fatalf("unexpected event %v", e)
	default:
	}
}

func TestMemoryEventBus_ContextCancelClosesChannel(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := bus.Subscribe(ctx, providers.EventChannelUsers)
	require.NoError(t, err)

	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryEventBus_Close(t *testing.T) {
	bus := NewMemoryEventBus()
	ch, err := bus.Subscribe(context.Background(), providers.EventChannelUsers)
	require.NoError(t, err)

	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	_, ok := <-ch
	assert.False(t, ok)

	err = bus.Publish(context.Background(), providers.EventChannelUsers, entities.NewEvent(entities.EventTypeUserBlocked, "u-1", "", nil))
	assert.ErrorIs(t, err, ErrBusClosed)

	_, err = bus.Subscribe(context.Background(), providers.EventChannelUsers)
	assert.ErrorIs(t, err, ErrBusClosed)
}

func TestMemoryEventBus_RejectsWrongChannel(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()

	err := bus.Publish(context.Background(), providers.EventChannelUsers,
		entities.NewEvent(entities.EventTypeReservationCreated, "res-1", "client-1", nil))
	assert.ErrorIs(t, err, ErrChannelMismatch)
}

func TestChannelFor(t *testing.T) {
	assert.Equal(t, providers.EventChannelReservations, ChannelFor(entities.EventTypeReservationExpired))
	assert.Equal(t, providers.EventChannelUsers, ChannelFor(entities.EventTypeUserBlocked))
	assert.Empty(t, ChannelFor(entities.EventType("facility.updated")))
}

// newTestRedis connects to REDIS_TEST_ADDR when set, otherwise to an
// in-process miniredis
func newTestRedis(t *testing.T) *redisclient.Client {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = miniredis.RunT(t).Addr()
	}
	client := redisclient.NewClientFromRedis(goredis.NewClient(&goredis.Options{Addr: addr, Protocol: 2}))
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisEventBus_PublishSubscribe(t *testing.T) {
	bus := NewRedisEventBus(newTestRedis(t))
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := bus.Subscribe(ctx, providers.EventChannelReservations)
	require.NoError(t, err)
	second, err := bus.Subscribe(ctx, providers.EventChannelReservations)
	require.NoError(t, err)
	users, err := bus.Subscribe(ctx, providers.EventChannelUsers)
	require.NoError(t, err)

	reservation := &entities.Reservation{ID: "res-9", FacilityID: "fac-2", UserID: "client-1",
		Dates: []string{"2024-01-01"}, Status: entities.ReservationStatusConfirmed, TotalFee: 150}
	event := entities.NewReservationEvent(entities.EventTypeReservationApproved, reservation, "head-1")
	require.NoError(t, bus.Publish(ctx, providers.EventChannelReservations, event))

	for _, ch := range []<-chan *entities.Event{first, second} {
		got := receive(t, ch)
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, entities.EventTypeReservationApproved, got.Type)
		assert.Equal(t, "res-9", got.SubjectID)
		assert.Equal(t, "fac-2", got.Data["facility_id"])
		assert.Equal(t, "Confirmed", got.Data["status"])
	}

	select {
	case e := <-users:
		t.Fatalf("unexpected event on users channel: %v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRedisEventBus_RejectsWrongChannel(t *testing.T) {
	bus := NewRedisEventBus(newTestRedis(t))
	defer bus.Close()

	err := bus.Publish(context.Background(), providers.EventChannelReservations,
		entities.NewEvent(entities.EventTypeUserApproved, "u-1", "head-1", nil))
	assert.ErrorIs(t, err, ErrChannelMismatch)
}

func TestRedisEventBus_ContextCancelClosesChannel(t *testing.T) {
	bus := NewRedisEventBus(newTestRedis(t))
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := bus.Subscribe(ctx, providers.EventChannelUsers)
	require.NoError(t, err)

	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRedisEventBus_UnsubscribeAndClose(t *testing.T) {
	bus := NewRedisEventBus(newTestRedis(t))
	ctx := context.Background()

	users, err := bus.Subscribe(ctx, providers.EventChannelUsers)
	require.NoError(t, err)
	reservations, err := bus.Subscribe(ctx, providers.EventChannelReservations)
	require.NoError(t, err)

	require.NoError(t, bus.Unsubscribe(ctx, providers.EventChannelUsers))
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-users:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-reservations:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	err = bus.Publish(ctx, providers.EventChannelUsers, entities.NewEvent(entities.EventTypeUserBlocked, "u-1", "", nil))
	assert.ErrorIs(t, err, ErrBusClosed)
	_, err = bus.Subscribe(ctx, providers.EventChannelUsers)
	assert.ErrorIs(t, err, ErrBusClosed)
}
