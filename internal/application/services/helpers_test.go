package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zatekoja/facilityreservation/internal/adapters/cache"
	"github.com/zatekoja/facilityreservation/internal/adapters/memory"
	"github.com/zatekoja/facilityreservation/internal/application/services"
	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/infrastructure/auth"
	"github.com/zatekoja/facilityreservation/internal/seed"
)

type fixture struct {
	users        *memory.UserStore
	facilities   *memory.FacilityStore
	reservations *memory.ReservationStore
	bus          *recordingBus

	facilitySvc    *services.FacilityService
	reservationSvc *services.ReservationService
	identitySvc    *services.IdentityService
}

func newFixture(t *testing.T, cfg services.ReservationServiceConfig) *fixture {
	t.Helper()

	f := &fixture{
		users:        memory.NewUserStore(seed.Users()...),
		facilities:   memory.NewFacilityStore(seed.Facilities()...),
		reservations: memory.NewReservationStore(),
		bus:          &recordingBus{},
	}

	f.facilitySvc = services.NewFacilityService(f.facilities)
	f.reservationSvc = services.NewReservationService(f.reservations, f.facilities, cfg)
	f.reservationSvc.SetEventBus(f.bus)

	tokens := auth.NewTokenIssuer("test-secret", "facility-reservation-test", time.Hour)
	f.identitySvc = services.NewIdentityService(f.users, cache.NewSessionStore(cache.NewMemoryAdapter()), tokens)
	f.identitySvc.SetEventBus(f.bus)
	return f
}

func (f *fixture) user(t *testing.T, id string) *entities.User {
	t.Helper()
	u, err := f.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

// internalClient registers an internal client and approves it
func (f *fixture) internalClient(t *testing.T) *entities.User {
	t.Helper()
	ctx := context.Background()

	res, err := f.identitySvc.Register(ctx, services.RegisterInput{
		Name:         "Staff Member",
		Email:        "staff@org.com",
		Role:         entities.RoleInternalClient,
		Organization: "Facilities Dept",
	})
	require.NoError(t, err)

	u, err := f.identitySvc.ApproveUser(ctx, f.user(t, "admin-1"), res.User.ID)
	require.NoError(t, err)
	return u
}

// recordingBus is an EventBus that only records what was published
type recordingBus struct {
	mu     sync.Mutex
	events []*entities.Event
}

func (b *recordingBus) Publish(ctx context.Context, channel string, event *entities.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.Event, error) {
	return make(chan *entities.Event), nil
}

func (b *recordingBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (b *recordingBus) Close() error { return nil }

func (b *recordingBus) types() []entities.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]entities.EventType, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Type)
	}
	return out
}
