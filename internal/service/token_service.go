package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avolkov/authd/internal/logger"
	"github.com/avolkov/authd/internal/model"
)

// TokenService provides high-level operations for issuing, rotating,
// revoking and validating tokens. It composes the TokenManager and
// RefreshTokenStore; all durable state lives in the store.
type TokenService struct {
	manager model.TokenManager
	store   model.RefreshTokenStore
	users   model.UserStore
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, store model.RefreshTokenStore, users model.UserStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, store: store, users: users, logger: logger}
}

// Issue creates a new access/refresh pair for the user and persists the
// refresh token as a new active session. The session row ID is embedded in
// the access token claims so the gate can check revocation later.
func (s *TokenService) Issue(ctx context.Context, user model.User) (accessToken string, refreshToken string, err error) {
	sessionID := uuid.New()

	refresh, expiresAt, err := s.manager.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh: %w", err)
	}

	access, err := s.manager.GenerateAccessToken(model.AccessClaims{
		UserID:    user.ID,
		SessionID: sessionID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	})
	if err != nil {
		return "", "", fmt.Errorf("issue access: %w", err)
	}

	rt := model.RefreshToken{
		ID:        sessionID,
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: expiresAt,
		Status:    model.TokenStatusActive,
	}

	if err := s.store.Insert(ctx, rt); err != nil {
		return "", "", mapStoreErr(fmt.Errorf("persist refresh: %w", err))
	}

	return access, refresh, nil
}

// Refresh exchanges a still-active refresh token for a new pair. The
// session row is rotated in place: token value and expiry change, status
// and row identity stay. The rotation is a conditional update, so of two
// concurrent calls with the same token only one succeeds.
func (s *TokenService) Refresh(ctx context.Context, presented string) (newAccess string, newRefresh string, err error) {
	if _, err := s.manager.ParseRefreshToken(presented); err != nil {
		s.logger.Debug("Token service: refresh token rejected by codec", "error", err.Error())
		return "", "", model.ErrInvalidRefreshToken
	}

	rt, err := s.store.FindActiveByToken(ctx, presented)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", "", model.ErrInvalidRefreshToken
		}
		return "", "", mapStoreErr(err)
	}

	// The store does not auto-expire rows.
	if time.Now().After(rt.ExpiresAt) {
		return "", "", model.ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", "", model.ErrInvalidRefreshToken
		}
		return "", "", mapStoreErr(err)
	}

	refresh, expiresAt, err := s.manager.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", fmt.Errorf("issue new refresh: %w", err)
	}

	if err := s.store.Rotate(ctx, presented, refresh, expiresAt); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// Lost a concurrent rotation or revocation of the same token.
			return "", "", model.ErrInvalidRefreshToken
		}
		return "", "", mapStoreErr(fmt.Errorf("rotate refresh: %w", err))
	}

	access, err := s.manager.GenerateAccessToken(model.AccessClaims{
		UserID:    user.ID,
		SessionID: rt.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	})
	if err != nil {
		return "", "", fmt.Errorf("issue new access: %w", err)
	}

	return access, refresh, nil
}

// Revoke marks the matching row revoked regardless of its current status.
// Revoking an already-revoked token succeeds; a missing row is ErrNotFound.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	found, err := s.store.RevokeByToken(ctx, token)
	if err != nil {
		return mapStoreErr(err)
	}
	if !found {
		return model.ErrNotFound
	}
	return nil
}

// Logout revokes the session behind the token, requiring it to currently
// be active.
func (s *TokenService) Logout(ctx context.Context, token string) error {
	if _, err := s.store.FindActiveByToken(ctx, token); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFoundOrInactive
		}
		return mapStoreErr(err)
	}

	if _, err := s.store.RevokeByToken(ctx, token); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// Validate admits or rejects an access token. Signature and expiry are
// checked by the codec; the backing session referenced by the claims must
// still exist and be active in the store.
func (s *TokenService) Validate(ctx context.Context, accessToken string) (model.AccessClaims, error) {
	claims, err := s.manager.ParseAccessToken(accessToken)
	if err != nil {
		s.logger.Debug("Token service: access token rejected by codec", "error", err.Error())
		return model.AccessClaims{}, model.ErrUnauthorized
	}

	rt, err := s.store.FindByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.AccessClaims{}, model.ErrUnauthorized
		}
		return model.AccessClaims{}, mapStoreErr(err)
	}

	if rt.Status != model.TokenStatusActive {
		return model.AccessClaims{}, model.ErrUnauthorized
	}

	return claims, nil
}

// RevokeAllForUser revokes every active session of the user. Zero affected
// rows is not an error.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	affected, err := s.store.RevokeAllActiveForUser(ctx, userID)
	if err != nil {
		return 0, mapStoreErr(err)
	}
	return affected, nil
}

// mapStoreErr converts timeouts and cancellations into the retryable
// ErrStoreUnavailable kind. Other errors pass through for the boundary to
// treat as internal.
func mapStoreErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
	}
	return err
}
