package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	limiter := NewRateLimiter()

	assert.True(t, limiter.Allow("1.2.3.4", 2, time.Minute))
	assert.True(t, limiter.Allow("1.2.3.4", 2, time.Minute))
	assert.False(t, limiter.Allow("1.2.3.4", 2, time.Minute))

	// Separate keys get separate windows.
	assert.True(t, limiter.Allow("5.6.7.8", 2, time.Minute))
}

func TestRateLimiter_WindowReset(t *testing.T) {
	limiter := NewRateLimiter()

	assert.True(t, limiter.Allow("k", 1, time.Millisecond))
	assert.False(t, limiter.Allow("k", 1, time.Millisecond))

	time.Sleep(5 * time.Millisecond)
	assert.True(t, limiter.Allow("k", 1, time.Millisecond))
}

func TestRateLimit_Middleware(t *testing.T) {
	handler := RateLimit(NewRateLimiter(), 1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.1:4242"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimit_NilLimiterPassesThrough(t *testing.T) {
	handler := RateLimit(nil, 0, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
