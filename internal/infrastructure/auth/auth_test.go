package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", "facility-reservation", time.Hour)

	token, expiresAt, err := issuer.Issue("sess-1", "client-1", "ExternalClient")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.ID)
	assert.Equal(t, "client-1", claims.Subject)
	assert.Equal(t, "ExternalClient", claims.Role)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("secret", "facility-reservation", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := issuer.Issue("sess-1", "client-1", "ExternalClient")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_RejectsForeignTokens(t *testing.T) {
	issuer := NewTokenIssuer("secret", "facility-reservation", time.Hour)

	other := NewTokenIssuer("other-secret", "facility-reservation", time.Hour)
	forged, _, err := other.Issue("sess-1", "admin-1", "SystemAdmin")
	require.NoError(t, err)
	_, err = issuer.Verify(forged)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	wrongIssuer := NewTokenIssuer("secret", "someone-else", time.Hour)
	token, _, err := wrongIssuer.Issue("sess-1", "admin-1", "SystemAdmin")
	require.NoError(t, err)
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "admin-1", "jti": "x"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Verify(unsigned)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, VerifyPassword("s3cret", hash))
	assert.False(t, VerifyPassword("wrong", hash))
}
