package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avolkov/authd/internal/logger"
	"github.com/avolkov/authd/internal/model"
)

// Auth orchestrates registration and login: credential verification, user
// creation, and session issuance.
type Auth struct {
	users        model.UserStore
	hasher       model.PasswordHasher
	tokenService *TokenService
	logger       *logger.Logger
}

func NewAuth(users model.UserStore, hasher model.PasswordHasher, tokenService *TokenService, logger *logger.Logger) *Auth {
	return &Auth{
		users:        users,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       logger,
	}
}

// RegisterParams carries the fields of a registration request.
type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult is the payload returned on successful registration or login.
type AuthResult struct {
	User         model.User
	AccessToken  string
	RefreshToken string
}

// Register creates a new user with a standard role and opens its first
// session.
func (a *Auth) Register(ctx context.Context, params RegisterParams) (AuthResult, error) {
	a.logger.Debug("Auth service: starting user registration", "email", params.Email)

	_, err := a.users.GetByEmail(ctx, params.Email)
	if err == nil {
		a.logger.Info("Auth service: email already taken", "email", params.Email)
		return AuthResult{}, model.ErrDuplicateEmail
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", params.Email,
			"error", err.Error())
		return AuthResult{}, mapStoreErr(fmt.Errorf("failed to get user by email: %w", err))
	}

	passwordHash, err := a.hasher.Hash(params.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.users.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        params.Email,
		PasswordHash: passwordHash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Role:         model.RoleStandard,
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			return AuthResult{}, model.ErrDuplicateEmail
		}
		a.logger.Error("Auth service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return AuthResult{}, mapStoreErr(fmt.Errorf("failed to create user: %w", err))
	}

	access, refresh, err := a.tokenService.Issue(ctx, user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: user registered", "user_id", user.ID)

	return AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Login verifies credentials and opens a new session, superseding any
// prior active session of the same user. Unknown email and wrong password
// are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, email, password string) (AuthResult, error) {
	a.logger.Debug("Auth service: starting user login", "email", email)

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return AuthResult{}, model.ErrInvalidCredentials
		}
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return AuthResult{}, mapStoreErr(fmt.Errorf("failed to get user by email: %w", err))
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return AuthResult{}, model.ErrInvalidCredentials
	}

	if _, err := a.tokenService.RevokeAllForUser(ctx, user.ID); err != nil {
		a.logger.Error("Auth service: failed to revoke prior sessions",
			"user_id", user.ID,
			"error", err.Error())
		return AuthResult{}, fmt.Errorf("failed to revoke prior sessions: %w", err)
	}

	access, refresh, err := a.tokenService.Issue(ctx, user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: user logged in", "user_id", user.ID)

	return AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}
