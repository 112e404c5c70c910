package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/authd/internal/model"
)

func TestJWT_AccessToken_Roundtrip(t *testing.T) {
	j := NewJWT("secret", time.Hour, 7*24*time.Hour)
	claims := model.AccessClaims{
		UserID:    uuid.New(),
		SessionID: uuid.New(),
		Email:     "a@x.com",
		FirstName: "Ann",
		LastName:  "Ng",
		Role:      model.RoleAdmin,
	}

	access, err := j.GenerateAccessToken(claims)
	require.NoError(t, err)

	got, err := j.ParseAccessToken(access)
	require.NoError(t, err)
	require.Equal(t, claims, got)
}

func TestJWT_RefreshToken_Roundtrip(t *testing.T) {
	j := NewJWT("secret", time.Hour, 7*24*time.Hour)
	u := uuid.New()

	refresh, expiresAt, err := j.GenerateRefreshToken(u)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiresAt, time.Minute)

	gotUser, err := j.ParseRefreshToken(refresh)
	require.NoError(t, err)
	require.Equal(t, u, gotUser)
}

func TestJWT_TokenType_Mismatch(t *testing.T) {
	j := NewJWT("secret", time.Hour, 7*24*time.Hour)
	u := uuid.New()

	access, err := j.GenerateAccessToken(model.AccessClaims{UserID: u, SessionID: uuid.New()})
	require.NoError(t, err)
	_, err = j.ParseRefreshToken(access)
	require.Error(t, err)

	refresh, _, err := j.GenerateRefreshToken(u)
	require.NoError(t, err)
	_, err = j.ParseAccessToken(refresh)
	require.Error(t, err)
}

func TestJWT_WrongSecret(t *testing.T) {
	issuer := NewJWT("secret-a", time.Hour, time.Hour)
	verifier := NewJWT("secret-b", time.Hour, time.Hour)

	access, err := issuer.GenerateAccessToken(model.AccessClaims{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = verifier.ParseAccessToken(access)
	require.Error(t, err)
}

func TestJWT_Malformed(t *testing.T) {
	j := NewJWT("secret", time.Hour, time.Hour)

	_, err := j.ParseAccessToken("not.a.token")
	require.Error(t, err)
	_, err = j.ParseAccessToken("")
	require.Error(t, err)
}

func TestJWT_ExpiryBoundary(t *testing.T) {
	expired := NewJWT("secret", -time.Second, -time.Second)
	live := NewJWT("secret", time.Second, time.Second)
	u := uuid.New()

	access, err := expired.GenerateAccessToken(model.AccessClaims{UserID: u})
	require.NoError(t, err)
	_, err = expired.ParseAccessToken(access)
	require.Error(t, err)

	access, err = live.GenerateAccessToken(model.AccessClaims{UserID: u})
	require.NoError(t, err)
	_, err = live.ParseAccessToken(access)
	require.NoError(t, err)

	refresh, _, err := expired.GenerateRefreshToken(u)
	require.NoError(t, err)
	_, err = expired.ParseRefreshToken(refresh)
	require.Error(t, err)
}
