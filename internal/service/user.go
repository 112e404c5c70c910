package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avolkov/authd/internal/logger"
	"github.com/avolkov/authd/internal/model"
)

// Users provides profile CRUD. It sits outside the token lifecycle except
// for one coupling: deleting a user invalidates its sessions.
type Users struct {
	store        model.UserStore
	hasher       model.PasswordHasher
	tokenService *TokenService
	logger       *logger.Logger
}

func NewUsers(store model.UserStore, hasher model.PasswordHasher, tokenService *TokenService, logger *logger.Logger) *Users {
	return &Users{
		store:        store,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       logger,
	}
}

// UpdateParams carries optional profile fields; nil means unchanged.
type UpdateParams struct {
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
	Role      *model.Role
}

func (u *Users) List(ctx context.Context) ([]model.User, error) {
	users, err := u.store.List(ctx)
	if err != nil {
		return nil, mapStoreErr(fmt.Errorf("failed to list users: %w", err))
	}
	return users, nil
}

func (u *Users) Get(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := u.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, mapStoreErr(fmt.Errorf("failed to get user: %w", err))
	}
	return user, nil
}

// Update applies a partial profile edit. Changing the email re-checks
// uniqueness against other users; changing the password re-hashes it.
func (u *Users) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (model.User, error) {
	user, err := u.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, mapStoreErr(fmt.Errorf("failed to get user: %w", err))
	}

	if params.Email != nil && *params.Email != user.Email {
		existing, err := u.store.GetByEmail(ctx, *params.Email)
		if err == nil && existing.ID != id {
			return model.User{}, model.ErrDuplicateEmail
		}
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return model.User{}, mapStoreErr(fmt.Errorf("failed to check email: %w", err))
		}
		user.Email = *params.Email
	}
	if params.FirstName != nil {
		user.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		user.LastName = *params.LastName
	}
	if params.Password != nil {
		hash, err := u.hasher.Hash(*params.Password)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if params.Role != nil {
		user.Role = *params.Role
	}

	if err := u.store.Update(ctx, user); err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) || errors.Is(err, model.ErrNotFound) {
			return model.User{}, err
		}
		return model.User{}, mapStoreErr(fmt.Errorf("failed to update user: %w", err))
	}

	u.logger.Info("User service: user updated", "user_id", id)

	return user, nil
}

// Delete removes the user and invalidates its sessions. Revocation runs
// first so no session outlives its owner even if the delete fails midway.
func (u *Users) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := u.tokenService.RevokeAllForUser(ctx, id); err != nil {
		return fmt.Errorf("failed to revoke user sessions: %w", err)
	}

	if err := u.store.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return mapStoreErr(fmt.Errorf("failed to delete user: %w", err))
	}

	u.logger.Info("User service: user deleted", "user_id", id)

	return nil
}
