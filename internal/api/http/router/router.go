package router

import (
	"net/http"
	"time"

	"github.com/avolkov/authd/internal/api/http/handler"
	"github.com/avolkov/authd/internal/api/http/middleware"
	"github.com/avolkov/authd/internal/logger"
)

// Dependencies holds everything the router wires together.
type Dependencies struct {
	Auth            *handler.AuthHandler
	Users           *handler.UserHandler
	Gate            *middleware.Authenticate
	Logger          *logger.Logger
	RequestTimeout  time.Duration
	RateLimit       int
	RateLimitWindow time.Duration
}

// New builds the HTTP handler tree. Auth endpoints are public; user CRUD
// sits behind the request gate, with deletion additionally restricted to
// admins.
func New(deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/auth/register", deps.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", deps.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", deps.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/revoke", deps.Auth.Revoke)
	mux.HandleFunc("POST /api/auth/logout", deps.Auth.Logout)

	mux.Handle("GET /api/users", deps.Gate.Handle(http.HandlerFunc(deps.Users.List)))
	mux.Handle("GET /api/users/{id}", deps.Gate.Handle(http.HandlerFunc(deps.Users.Get)))
	mux.Handle("PUT /api/users/{id}", deps.Gate.Handle(http.HandlerFunc(deps.Users.Update)))
	mux.Handle("DELETE /api/users/{id}", deps.Gate.Handle(middleware.RequireAdmin(http.HandlerFunc(deps.Users.Delete))))

	return middleware.Chain(mux,
		middleware.NewLogging(deps.Logger).Handle,
		middleware.RateLimit(middleware.NewRateLimiter(), deps.RateLimit, deps.RateLimitWindow),
		middleware.Timeout(deps.RequestTimeout),
	)
}
