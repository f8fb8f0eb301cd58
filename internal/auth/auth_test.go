package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("Sup3r-Secret-Pass")
	require.NoError(t, err)
	require.True(t, ValidatePassword("Sup3r-Secret-Pass", hash))
	require.False(t, ValidatePassword("wrong", hash))
	require.False(t, ValidatePassword("Sup3r-Secret-Pass", "not-a-hash"))
}

func TestJwtRoundTrip(t *testing.T) {
	token, err := GenerateJwt(GenerateJwtOpts{
		Email:     "ops@example.com",
		Secret:    "secret",
		SessionId: "session-1",
		Ttl:       time.Hour,
		UserId:    "user-1",
	})
	require.NoError(t, err)

	claims, err := ValidateJWT("secret", token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserId)
	require.Equal(t, "session-1", claims.GetSessionId())
	require.Equal(t, DefaultIssuer, claims.Issuer)

	_, err = ValidateJWT("other-secret", token)
	require.True(t, errors.Is(err, ErrorJwtTokenSignature), "got %v", err)
}

func TestJwtExpired(t *testing.T) {
	token, err := GenerateJwt(GenerateJwtOpts{
		Secret:    "secret",
		SessionId: "session-1",
		Ttl:       -time.Minute,
		UserId:    "user-1",
	})
	require.NoError(t, err)
	_, err = ValidateJWT("secret", token)
	require.ErrorIs(t, err, ErrorJwtTokenExpired)
}

func TestSessionKey(t *testing.T) {
	require.Equal(t, "session:u1:s1", SessionKey("u1", "s1"))
	require.Equal(t, "session:u1:", SessionKeyPrefix("u1"))
}
