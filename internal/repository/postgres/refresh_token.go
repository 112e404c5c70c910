package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avolkov/authd/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)

type RefreshTokenRepository struct {
	db *Connection
}

func NewRefreshTokenRepository(db *Connection) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

const refreshTokenColumns = `id, user_id, token, expires_at, status, created_at, updated_at`

func (r *RefreshTokenRepository) Insert(ctx context.Context, token model.RefreshToken) error {
	const query = `
        INSERT INTO refresh_tokens (id, user_id, token, expires_at, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
    `

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if token.Status == "" {
		token.Status = model.TokenStatusActive
	}

	_, err := r.db.ExecContext(ctx, query,
		token.ID, token.UserID, token.Token, token.ExpiresAt, token.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrTokenConflict
		}
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) FindActiveByToken(ctx context.Context, token string) (model.RefreshToken, error) {
	const query = `
        SELECT ` + refreshTokenColumns + `
        FROM refresh_tokens WHERE token = $1 AND status = 'active'
    `
	rt, err := scanRefreshToken(r.db.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RefreshToken{}, model.ErrNotFound
		}
		return model.RefreshToken{}, fmt.Errorf("failed to find refresh token: %w", err)
	}
	return rt, nil
}

func (r *RefreshTokenRepository) FindByID(ctx context.Context, id uuid.UUID) (model.RefreshToken, error) {
	const query = `
        SELECT ` + refreshTokenColumns + `
        FROM refresh_tokens WHERE id = $1
    `
	rt, err := scanRefreshToken(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RefreshToken{}, model.ErrNotFound
		}
		return model.RefreshToken{}, fmt.Errorf("failed to find refresh token by id: %w", err)
	}
	return rt, nil
}

func (r *RefreshTokenRepository) RevokeAllActiveForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	const query = `
        UPDATE refresh_tokens SET status = 'revoked', updated_at = NOW()
        WHERE user_id = $1 AND status = 'active'
    `
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke refresh tokens by user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected, nil
}

func (r *RefreshTokenRepository) RevokeByToken(ctx context.Context, token string) (bool, error) {
	const query = `
        UPDATE refresh_tokens SET status = 'revoked', updated_at = NOW()
        WHERE token = $1
    `
	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return false, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// Rotate replaces the token value and expiry on the active row matched by
// oldToken in a single conditional update. Of two concurrent rotations of
// the same token exactly one matches; the loser gets ErrNotFound.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldToken, newToken string, newExpiresAt time.Time) error {
	const query = `
        UPDATE refresh_tokens SET token = $1, expires_at = $2, updated_at = NOW()
        WHERE token = $3 AND status = 'active'
    `
	res, err := r.db.ExecContext(ctx, query, newToken, newExpiresAt, oldToken)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrTokenConflict
		}
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// PurgeExpiredRevoked deletes revoked rows whose expiry is older than the
// retention horizon. Active rows are never deleted here regardless of
// expiry; they are reaped lazily at validation time.
func (r *RefreshTokenRepository) PurgeExpiredRevoked(ctx context.Context, retention time.Duration) (int64, error) {
	const query = `
        DELETE FROM refresh_tokens WHERE status = 'revoked' AND expires_at < $1
    `
	res, err := r.db.ExecContext(ctx, query, time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("failed to purge refresh tokens: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return deleted, nil
}

func scanRefreshToken(row rowScanner) (model.RefreshToken, error) {
	var rt model.RefreshToken
	err := row.Scan(
		&rt.ID, &rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.Status,
		&rt.CreatedAt, &rt.UpdatedAt,
	)
	if err != nil {
		return model.RefreshToken{}, err
	}
	return rt, nil
}
