package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/avolkov/authd/internal/model"
)

var _ model.PasswordHasher = (*Hasher)(nil)

// Hasher hashes and verifies passwords with bcrypt. The cost is the bcrypt
// work factor; bcrypt salts every digest, so equal inputs produce distinct
// digests across calls.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given work factor. Costs outside the
// bcrypt range fall back to the library default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash produces a salted one-way digest of the plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the digest. A malformed digest
// is treated as a mismatch, never an error.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
