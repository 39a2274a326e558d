package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/facilityreservation/internal/application/services"
	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	apperrors "github.com/zatekoja/facilityreservation/pkg/errors"
)

func TestRegister_ExternalClientIsActiveWithSession(t *testing.T) {
	f := newFixture(t, services.ReservationServiceConfig{})
	ctx := context.Background()

	res, err := f.identitySvc.Register(ctx, services.RegisterInput{Email: "guest@ext.com"})
	require.NoError(t, err)

	assert.Equal(t, services.MsgRegistrationSuccessful, res.Message)
	assert.Equal(t, "New User", res.User.Name)
	assert.Equal(t, entities.RoleExternalClient, res.User.Role)
	assert.Equal(t, entities.UserStatusActive, res.User.Status)
	assert.Equal(t, []string{}, res.User.Documents)
	require.NotEmpty(t, res.Token)
	require.NotNil(t, res.ExpiresAt)

	user, session, err := f.identitySvc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)
	assert.Equal(t, res.User.ID, session.UserID)

	assert.Equal(t, []entities.EventType{entities.EventTypeUserRegistered}, f.bus.types())
}

func TestRegister_InternalClientPendsWithoutSession(t *testing.T) {
	f := newFixture(t, services.ReservationServiceConfig{})
	ctx := context.Background()

	res, err := f.identitySvc.Register(ctx, services.RegisterInput{
		Name:      "Staff",
		Email:     "staff@org.com",
		Role:      entities.RoleInternalClient,
		Documents: []string{"id-card.pdf"},
	})
	require.NoError(t, err)

	assert.Equal(t, services.MsgRegistrationPending, res.Message)
	assert.Equal(t, entities.UserStatusPendingVerification, res.User.Status)
	assert.Empty(t, res.Token)
	assert.Nil(t, res.ExpiresAt)

	pending, err := f.identitySvc.PendingUsers(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, res.User.ID, pending[0].ID)

	_, err = f.identitySvc.Login(ctx, "staff@org.com", "")
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeUnauthorized))
	assert.Equal(t, services.MsgAccountPending, apperrors.MessageOf(err))
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t, services.ReservationServiceConfig{})
	ctx := context.Background()

	_, err := f.identitySvc.Register(ctx, services.RegisterInput{Email: "  "})
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))

	_, err = f.identitySvc.Register(ctx, services.RegisterInput{Email: "a@b.com", Role: "Janitor"})
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))
}

func TestLogin_SeededUser(t *testing.T) {
	f := newFixture(t, services.ReservationServiceConfig{})
	ctx := context.Background()

	res, err := f.identitySvc.Login(ctx, "admin@sys.com", "")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", res.User.ID)
	assert.NotEmpty(t, res.Token)

	_, err = f.identitySvc.Login(ctx, "nobody@sys.com", "")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, services.MsgUserNotFound, apperrors.MessageOf(err))
}

func TestLogin_Password(t *testing.T) {
	f := newFixture(t, services.ReservationServiceConfig{})
	ctx := context.Background()

	_, err := f.identitySvc.Register(ctx, services.RegisterInput{Email: "pw@ext.com", Password: "s3cret"})
	require.NoError(t, err)

	_, err = f.identitySvc.Login(ctx, "pw@ext.com", "wrong")
	assert.Equal(t, services.MsgInvalidCredentials, apperrors.MessageOf(err))

	res, err := f.identitySvc.Login(ctx, "pw@ext.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, res.User.PasswordHash)
	assert.NotEqual(t, "s3cret", res.User.PasswordHash)
}

func TestLogin_DuplicateEmailUsesFirstMatch(t *testing.T) {
	f := newFixture(t, services.ReservationServiceConfig{})
	ctx := context.Background()

	_, err := f.identitySvc.Register(ctx, services.RegisterInput{Name: "Second", Email: "admin@sys.com"})
	require.NoError(t, err)

	res, err := f.identitySvc.Login(ctx, "admin@sys.com", "")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", res.User.ID)
}

func TestLogout_RevokesSession(t *testing.T) {
	f := newFixture(t, services.ReservationServiceConfig{})
	ctx := context.Background()

	res, err := f.identitySvc.Login(ctx, "client@ext.com", "")
	require.NoError(t, err)
	_, session, err := f.identitySvc.Authenticate(ctx, res.Token)
	require.NoError(t, err)

	require.NoError(t, f.identitySvc.Logout(ctx, session.ID))

	_, _, err = f.identitySvc.Authenticate(ctx, res.Token)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeUnauthorized))

	// The account itself is untouched.
	_, err = f.identitySvc.Login(ctx, "client@ext.com", "")
	assert.NoError(t, err)
}

func TestAuthenticate_RejectsGarbage(t *testing.T) {
	f := newFixture(t, services.ReservationServiceConfig{})

	_, _, err := f.identitySvc.Authenticate(context.Background(), "not-a-token")
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeUnauthorized))
	assert.Equal(t, services.MsgNotLoggedIn, apperrors.MessageOf(err))
}

func TestApproveUser(t *testing.T) {
	f := newFixture(t, services.ReservationServiceConfig{})
	ctx := context.Background()
	admin := f.user(t, "admin-1")

	res, err := f.identitySvc.Register(ctx, services.RegisterInput{Email: "staff@org.com", Role: entities.RoleInternalClient})
	require.NoError(t, err)

	approved, err := f.identitySvc.ApproveUser(ctx, admin, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.UserStatusActive, approved.Status)

	_, err = f.identitySvc.Login(ctx, "staff@org.com", "")
	assert.NoError(t, err)

	// Approving an account that is not pending changes nothing.
	blocked, err := f.identitySvc.BlockUser(ctx, admin, res.User.ID)
	require.NoError(t, err)
	again, err := f.identitySvc.ApproveUser(ctx, admin, blocked.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.UserStatusBlocked, again.Status)

	_, err = f.identitySvc.ApproveUser(ctx, admin, "user-404")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestBlockUser(t *testing.T) {
	f := newFixture(t, services.ReservationServiceConfig{})
	ctx := context.Background()
	admin := f.user(t, "admin-1")

	res, err := f.identitySvc.Login(ctx, "client@ext.com", "")
	require.NoError(t, err)

	blocked, err := f.identitySvc.BlockUser(ctx, admin, "client-1")
	require.NoError(t, err)
	assert.Equal(t, entities.UserStatusBlocked, blocked.Status)

	_, _, err = f.identitySvc.Authenticate(ctx, res.Token)
	assert.Equal(t, services.MsgAccountBlocked, apperrors.MessageOf(err))

	_, err = f.identitySvc.Login(ctx, "client@ext.com", "")
	assert.Equal(t, services.MsgAccountBlocked, apperrors.MessageOf(err))

	_, err = f.identitySvc.BlockUser(ctx, admin, "admin-1")
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))

	assert.Contains(t, f.bus.types(), entities.EventTypeUserBlocked)
}

func TestListUsers(t *testing.T) {
	f := newFixture(t, services.ReservationServiceConfig{})

	users, err := f.identitySvc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 5)
	assert.Equal(t, "admin-1", users[0].ID)
}
