package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-jwt-secret")

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	exp := time.Now().Add(15 * time.Minute).UTC()

	token, err := NewAccessToken(userID, RoleAdmin, exp, secret)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestAccessToken_Expired(t *testing.T) {
	t.Parallel()

	token, err := NewAccessToken(uuid.NewString(), RoleUser, time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(token, secret)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewAccessToken(uuid.NewString(), RoleUser, time.Now().Add(time.Minute), secret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(token, []byte("other"))
	require.Error(t, err)
}

func TestAccessToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := AccessClaims{Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "x"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(token, secret)
	require.Error(t, err)
}
