package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/avolkov/authd/internal/logger"
	"github.com/avolkov/authd/internal/model"
)

type contextKey int

const claimsKey contextKey = iota

// ClaimsFromContext extracts the validated access claims injected by
// Authenticate.
func ClaimsFromContext(ctx context.Context) (model.AccessClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(model.AccessClaims)
	return claims, ok
}

// TokenValidator admits or rejects access tokens.
type TokenValidator interface {
	Validate(ctx context.Context, accessToken string) (model.AccessClaims, error)
}

// Authenticate is the request gate: it parses the bearer token, asks the
// token service to validate it against the live session state, and injects
// the claims into the request context.
type Authenticate struct {
	tokenService TokenValidator
	logger       *logger.Logger
}

func NewAuthenticate(tokenService TokenValidator, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, logger: logger}
}

func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if tokenString == "" {
			writeStatus(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := m.tokenService.Validate(r.Context(), tokenString)
		if err != nil {
			if errors.Is(err, model.ErrStoreUnavailable) {
				writeStatus(w, http.StatusServiceUnavailable, model.ErrStoreUnavailable.Error())
				return
			}
			if !errors.Is(err, model.ErrUnauthorized) {
				m.logger.Error("request gate: validation failed", "error", err.Error())
			}
			writeStatus(w, http.StatusUnauthorized, model.ErrUnauthorized.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// RequireAdmin rejects requests whose validated claims do not carry the
// admin role. It must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Role != model.RoleAdmin {
			writeStatus(w, http.StatusForbidden, "admin privileges required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeStatus(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
