package model

import (
	"time"

	"github.com/google/uuid"
)

// AccessClaims is the claim set embedded in access tokens. SessionID
// references the backing refresh token row so the gate can confirm the
// session has not been revoked.
type AccessClaims struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Role      Role
}

// TokenManager generates and validates access/refresh tokens.
type TokenManager interface {
	GenerateAccessToken(claims AccessClaims) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (token string, expiresAt time.Time, err error)
	ParseAccessToken(token string) (AccessClaims, error)
	ParseRefreshToken(token string) (uuid.UUID, error)
}

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}
