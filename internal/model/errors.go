package model

import "errors"

// Sentinel errors returned by services. Handlers map these to response
// status categories; raw store and codec errors never cross the boundary.
var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateEmail      = errors.New("email already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("refresh token invalid or expired")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotFoundOrInactive  = errors.New("refresh token not found or not active")
	ErrTokenConflict       = errors.New("refresh token value already exists")

	// ErrStoreUnavailable is the only kind callers may retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)
