package jwt

import (
	"testing"
	"time"

	"foodgram/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTServiceWithSecret("secret")

	token, err := svc.GenerateTokenUser(42)
	require.NoError(t, err)

	id, err := svc.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := NewJWTServiceWithSecret("secret").GenerateTokenUser(1)
	require.NoError(t, err)

	_, err = NewJWTServiceWithSecret("other").GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestJWTService_Expired(t *testing.T) {
	svc := &jwtService{secretKey: "secret", issuer: "FOODGRAM", ttl: -time.Minute}
	token, err := svc.GenerateTokenUser(1)
	require.NoError(t, err)

	_, err = svc.GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestJWTService_Garbage(t *testing.T) {
	_, err := NewJWTServiceWithSecret("secret").GetUserIDByToken("not.a.token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
