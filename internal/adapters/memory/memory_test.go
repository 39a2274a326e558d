package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/domain/repositories"
	apperrors "github.com/zatekoja/facilityreservation/pkg/errors"
)

func TestUserStore_FirstEmailMatchWins(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(
		&entities.User{ID: "u-1", Email: "dup@x.com", Status: entities.UserStatusActive},
		&entities.User{ID: "u-2", Email: "dup@x.com", Status: entities.UserStatusBlocked},
	)

	u, err := store.GetByEmail(ctx, "dup@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)

	_, err = store.GetByEmail(ctx, "nobody@x.com")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserStore_ListAndUpdateStatus(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(
		&entities.User{ID: "u-1", Role: entities.RoleInternalClient, Status: entities.UserStatusPendingVerification},
		&entities.User{ID: "u-2", Role: entities.RoleExternalClient, Status: entities.UserStatusActive},
	)

	pending, err := store.List(ctx, repositories.UserFilter{Status: entities.UserStatusPendingVerification})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "u-1", pending[0].ID)

	require.NoError(t, store.UpdateStatus(ctx, "u-1", entities.UserStatusActive))
	u, err := store.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, entities.UserStatusActive, u.Status)

	err = store.UpdateStatus(ctx, "missing", entities.UserStatusActive)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(&entities.User{ID: "u-1", Status: entities.UserStatusActive})

	u, err := store.GetByID(ctx, "u-1")
	require.NoError(t, err)
	u.Status = entities.UserStatusBlocked

	again, err := store.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, entities.UserStatusActive, again.Status)
}

func TestFacilityStore_BlockedDates(t *testing.T) {
	ctx := context.Background()
	store := NewFacilityStore(&entities.Facility{ID: "fac-2", ManagerID: "manager-1"})

	require.NoError(t, store.AddBlockedDate(ctx, "fac-2", "2024-01-01"))
	require.NoError(t, store.AddBlockedDate(ctx, "fac-2", "2024-01-01"))
	require.NoError(t, store.AddBlockedDate(ctx, "fac-2", "2024-01-05"))

	f, err := store.GetByID(ctx, "fac-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2024-01-05"}, f.BlockedDates)

	require.NoError(t, store.RemoveBlockedDate(ctx, "fac-2", "2024-01-01"))
	require.NoError(t, store.RemoveBlockedDate(ctx, "fac-2", "2024-01-01"))

	f, err = store.GetByID(ctx, "fac-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-05"}, f.BlockedDates)

	assert.True(t, apperrors.IsNotFound(store.AddBlockedDate(ctx, "fac-9", "2024-01-01")))
	assert.True(t, apperrors.IsNotFound(store.RemoveBlockedDate(ctx, "fac-9", "2024-01-01")))
}

func TestFacilityStore_ListByManager(t *testing.T) {
	ctx := context.Background()
	store := NewFacilityStore(
		&entities.Facility{ID: "fac-1", ManagerID: "manager-2"},
		&entities.Facility{ID: "fac-2", ManagerID: "manager-1"},
	)

	list, err := store.List(ctx, repositories.FacilityFilter{ManagerID: "manager-1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "fac-2", list[0].ID)

	all, err := store.List(ctx, repositories.FacilityFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReservationStore_Filters(t *testing.T) {
	ctx := context.Background()
	store := NewReservationStore()
	now := time.Now()

	require.NoError(t, store.Create(ctx, &entities.Reservation{ID: "res-1", FacilityID: "fac-1", UserID: "client-1", Status: entities.ReservationStatusPending, CreatedAt: now}))
	require.NoError(t, store.Create(ctx, &entities.Reservation{ID: "res-2", FacilityID: "fac-2", UserID: "client-1", Status: entities.ReservationStatusConfirmed, CreatedAt: now}))
	require.NoError(t, store.Create(ctx, &entities.Reservation{ID: "res-3", FacilityID: "fac-2", UserID: "client-2", Status: entities.ReservationStatusPending, CreatedAt: now}))

	pending, err := store.List(ctx, repositories.ReservationFilter{Status: entities.ReservationStatusPending})
	require.NoError(t, err)
	assert.Equal(t, []string{"res-1", "res-3"}, ids(pending))

	byFacility, err := store.List(ctx, repositories.ReservationFilter{FacilityIDs: []string{"fac-2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"res-2", "res-3"}, ids(byFacility))

	none, err := store.List(ctx, repositories.ReservationFilter{FacilityIDs: []string{}})
	require.NoError(t, err)
	assert.Empty(t, none)

	mine, err := store.List(ctx, repositories.ReservationFilter{UserID: "client-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"res-1", "res-2"}, ids(mine))

	err = store.Create(ctx, &entities.Reservation{ID: "res-1"})
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeConflict))
}

func TestReservationStore_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	store := NewReservationStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Create(ctx, &entities.Reservation{ID: entities.NewID(entities.ReservationIDPrefix), Status: entities.ReservationStatusPending})
		}()
	}
	wg.Wait()

	all, err := store.List(ctx, repositories.ReservationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 50)
}

func ids(rs []*entities.Reservation) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}
