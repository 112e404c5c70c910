package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/avolkov/authd/internal/password"
	"github.com/avolkov/authd/internal/service"
	"github.com/avolkov/authd/internal/testutil"
	"github.com/avolkov/authd/internal/token"
)

// newAuthHandler wires real services to in-memory stores.
func newAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()

	users := testutil.NewFakeUserStore()
	store := testutil.NewFakeRefreshTokenStore()
	manager := token.NewJWT("handler-test-secret", time.Hour, 24*time.Hour)
	hasher := password.NewHasher(bcrypt.MinCost)
	log := testutil.MakeNoopLogger()

	tokens := service.NewTokenService(manager, store, users, log)
	auth := service.NewAuth(users, hasher, tokens, log)
	return NewAuthHandler(auth, tokens, log)
}

func postJSON(t *testing.T, handlerFunc http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handlerFunc(rec, req)
	return rec
}

func TestAuthHandler_Register(t *testing.T) {
	h := newAuthHandler(t)

	rec := postJSON(t, h.Register, "/api/auth/register", registerRequest{
		Email: "a@x.com", Password: "pw", FirstName: "Ann", LastName: "Ng",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp authResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "a@x.com", resp.Data.Email)
	assert.Equal(t, "standard", resp.Data.Role)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)

	// Same email again.
	rec = postJSON(t, h.Register, "/api/auth/register", registerRequest{Email: "a@x.com", Password: "pw"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	h := newAuthHandler(t)

	rec := postJSON(t, h.Register, "/api/auth/register", registerRequest{Email: "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte("{not json")))
	rec = httptest.NewRecorder()
	h.Register(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	h := newAuthHandler(t)

	rec := postJSON(t, h.Register, "/api/auth/register", registerRequest{Email: "a@x.com", Password: "pw"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, h.Login, "/api/auth/login", loginRequest{Email: "a@x.com", Password: "pw"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp authResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Token)

	rec = postJSON(t, h.Login, "/api/auth/login", loginRequest{Email: "a@x.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(t, h.Login, "/api/auth/login", loginRequest{Email: "nobody@x.com", Password: "pw"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_RefreshAndLogout(t *testing.T) {
	h := newAuthHandler(t)

	rec := postJSON(t, h.Register, "/api/auth/register", registerRequest{Email: "a@x.com", Password: "pw"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var reg authResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&reg))

	rec = postJSON(t, h.Refresh, "/api/auth/refresh", refreshRequest{RefreshToken: reg.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)

	var pair tokenPairResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&pair))
	assert.NotEqual(t, reg.RefreshToken, pair.RefreshToken)

	// Rotated-out token is rejected.
	rec = postJSON(t, h.Refresh, "/api/auth/refresh", refreshRequest{RefreshToken: reg.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(t, h.Logout, "/api/auth/logout", refreshRequest{RefreshToken: pair.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)

	// Session revoked, second logout has nothing active to end.
	rec = postJSON(t, h.Logout, "/api/auth/logout", refreshRequest{RefreshToken: pair.RefreshToken})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = postJSON(t, h.Refresh, "/api/auth/refresh", refreshRequest{RefreshToken: pair.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Revoke(t *testing.T) {
	h := newAuthHandler(t)

	rec := postJSON(t, h.Register, "/api/auth/register", registerRequest{Email: "a@x.com", Password: "pw"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var reg authResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&reg))

	rec = postJSON(t, h.Revoke, "/api/auth/revoke", refreshRequest{RefreshToken: reg.RefreshToken})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Revoke accepts already-revoked tokens.
	rec = postJSON(t, h.Revoke, "/api/auth/revoke", refreshRequest{RefreshToken: reg.RefreshToken})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, h.Revoke, "/api/auth/revoke", refreshRequest{RefreshToken: "unknown"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
