package router

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

	"github.com/avolkov/authd/internal/api/http/handler"
	"github.com/avolkov/authd/internal/api/http/middleware"
	"github.com/avolkov/authd/internal/model"
	"github.com/avolkov/authd/internal/password"
	"github.com/avolkov/authd/internal/service"
	"github.com/avolkov/authd/internal/testutil"
	"github.com/avolkov/authd/internal/token"
)

func newTestServer(t *testing.T) (http.Handler, *testutil.FakeUserStore) {
	t.Helper()

	users := testutil.NewFakeUserStore()
	store := testutil.NewFakeRefreshTokenStore()
	manager := token.NewJWT("router-test-secret", time.Hour, 24*time.Hour)
	hasher := password.NewHasher(bcrypt.MinCost)
	log := testutil.MakeNoopLogger()

	tokens := service.NewTokenService(manager, store, users, log)
	auth := service.NewAuth(users, hasher, tokens, log)
	userSvc := service.NewUsers(users, hasher, tokens, log)

	h := New(Dependencies{
		Auth:            handler.NewAuthHandler(auth, tokens, log),
		Users:           handler.NewUserHandler(userSvc, log),
		Gate:            middleware.NewAuthenticate(tokens, log),
		Logger:          log,
		RequestTimeout:  5 * time.Second,
		RateLimit:       1000,
		RateLimitWindow: time.Minute,
	})
	return h, users
}

func do(t *testing.T, h http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "127.0.0.1:51000"
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRouter_UserRoutesRequireToken(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/users", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_AuthenticatedUserFlow(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "a@x.com", "password": "pw", "first_name": "Ann",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var reg struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&reg))

	rec = do(t, h, http.MethodGet, "/api/users", reg.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/users/"+reg.Data.ID, reg.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/users/"+reg.Data.ID, reg.Token, map[string]string{"first_name": "Anna"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_DeleteRequiresAdmin(t *testing.T) {
	h, users := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "u@x.com", "password": "pw",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var reg struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&reg))

	// Standard role cannot delete.
	rec = do(t, h, http.MethodDelete, "/api/users/"+reg.Data.ID, reg.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Promote a second account to admin directly in the store, then log in
	// to get a token carrying the admin role.
	rec = do(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "root@x.com", "password": "pw",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	admin, err := users.GetByEmail(t.Context(), "root@x.com")
	require.NoError(t, err)
	admin.Role = model.RoleAdmin
	require.NoError(t, users.Update(t.Context(), admin))

	rec = do(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "root@x.com", "password": "pw",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&login))

	rec = do(t, h, http.MethodDelete, "/api/users/"+reg.Data.ID, login.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The deleted user's token no longer passes the gate.
	rec = do(t, h, http.MethodGet, "/api/users", reg.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
