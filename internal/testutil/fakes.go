package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avolkov/authd/internal/model"
)

// FakeUserStore is an in-memory UserStore for service-level tests.
type FakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

var _ model.UserStore = (*FakeUserStore)(nil)

func NewFakeUserStore() *FakeUserStore {
	return &FakeUserStore{users: make(map[uuid.UUID]model.User)}
}

func (s *FakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *FakeUserStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (s *FakeUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return model.User{}, model.ErrDuplicateEmail
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	return user, nil
}

func (s *FakeUserStore) List(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	return users, nil
}

func (s *FakeUserStore) Update(_ context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return model.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = user
	return nil
}

func (s *FakeUserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// FakeRefreshTokenStore is an in-memory RefreshTokenStore mirroring the
// SQL semantics, including the conditional rotate: operations run under a
// single mutex, so concurrent rotations of the same token see exactly one
// winner.
type FakeRefreshTokenStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.RefreshToken
}

var _ model.RefreshTokenStore = (*FakeRefreshTokenStore)(nil)

func NewFakeRefreshTokenStore() *FakeRefreshTokenStore {
	return &FakeRefreshTokenStore{rows: make(map[uuid.UUID]model.RefreshToken)}
}

func (s *FakeRefreshTokenStore) Insert(_ context.Context, token model.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rt := range s.rows {
		if rt.Token == token.Token {
			return model.ErrTokenConflict
		}
	}
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.CreatedAt = time.Now()
	token.UpdatedAt = token.CreatedAt
	s.rows[token.ID] = token
	return nil
}

func (s *FakeRefreshTokenStore) FindActiveByToken(_ context.Context, token string) (model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rt := range s.rows {
		if rt.Token == token && rt.Status == model.TokenStatusActive {
			return rt, nil
		}
	}
	return model.RefreshToken{}, model.ErrNotFound
}

func (s *FakeRefreshTokenStore) FindByID(_ context.Context, id uuid.UUID) (model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.rows[id]
	if !ok {
		return model.RefreshToken{}, model.ErrNotFound
	}
	return rt, nil
}

func (s *FakeRefreshTokenStore) RevokeAllActiveForUser(_ context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var affected int64
	for id, rt := range s.rows {
		if rt.UserID == userID && rt.Status == model.TokenStatusActive {
			rt.Status = model.TokenStatusRevoked
			rt.UpdatedAt = time.Now()
			s.rows[id] = rt
			affected++
		}
	}
	return affected, nil
}

func (s *FakeRefreshTokenStore) RevokeByToken(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rt := range s.rows {
		if rt.Token == token {
			rt.Status = model.TokenStatusRevoked
			rt.UpdatedAt = time.Now()
			s.rows[id] = rt
			return true, nil
		}
	}
	return false, nil
}

func (s *FakeRefreshTokenStore) Rotate(_ context.Context, oldToken, newToken string, newExpiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rt := range s.rows {
		if rt.Token == oldToken && rt.Status == model.TokenStatusActive {
			rt.Token = newToken
			rt.ExpiresAt = newExpiresAt
			rt.UpdatedAt = time.Now()
			s.rows[id] = rt
			return nil
		}
	}
	return model.ErrNotFound
}

func (s *FakeRefreshTokenStore) PurgeExpiredRevoked(_ context.Context, retention time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-retention)
	var deleted int64
	for id, rt := range s.rows {
		if rt.Status == model.TokenStatusRevoked && rt.ExpiresAt.Before(cutoff) {
			delete(s.rows, id)
			deleted++
		}
	}
	return deleted, nil
}
