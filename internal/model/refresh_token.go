package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenStatus is the lifecycle state of a stored refresh token.
type TokenStatus string

const (
	TokenStatusActive  TokenStatus = "active"
	TokenStatusRevoked TokenStatus = "revoked"
)

// RefreshTokenStore persists refresh tokens. It is the durable source of
// truth for revocation.
type RefreshTokenStore interface {
	Insert(ctx context.Context, token RefreshToken) error
	FindActiveByToken(ctx context.Context, token string) (RefreshToken, error)
	FindByID(ctx context.Context, id uuid.UUID) (RefreshToken, error)
	RevokeAllActiveForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	RevokeByToken(ctx context.Context, token string) (bool, error)
	Rotate(ctx context.Context, oldToken, newToken string, newExpiresAt time.Time) error
	PurgeExpiredRevoked(ctx context.Context, retention time.Duration) (int64, error)
}

// RefreshToken is a session record. Rotation replaces Token and ExpiresAt
// in place; revocation flips Status; nothing else updates the row. The row
// ID doubles as the session identifier carried in access token claims, so
// it stays stable across rotations.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	Status    TokenStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
