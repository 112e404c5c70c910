package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is a closed set of user privilege levels. The persistence layer
// stores it as a small integer (2 means admin, anything else is standard)
// and converts at the edge.
type Role int

const (
	RoleStandard Role = iota
	RoleAdmin
)

const adminRoleCode = 2

// RoleFromInt converts a stored role code into a Role.
func RoleFromInt(code int) Role {
	if code == adminRoleCode {
		return RoleAdmin
	}
	return RoleStandard
}

// Int converts a Role back into its stored code.
func (r Role) Int() int {
	if r == RoleAdmin {
		return adminRoleCode
	}
	return 1
}

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "standard"
}

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// User represents a stored identity record. The token lifecycle never
// mutates it; profile edits go through the user service.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
