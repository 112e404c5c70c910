package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_Hash_DistinctDigests(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	d1, err := h.Hash("password")
	require.NoError(t, err)
	d2, err := h.Hash("password")
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2)
}

func TestHasher_Verify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	digest, err := h.Hash("correct horse")
	require.NoError(t, err)

	assert.True(t, h.Verify("correct horse", digest))
	assert.False(t, h.Verify("wrong horse", digest))
}

func TestHasher_Verify_MalformedDigest(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("anything", "not a bcrypt digest"))
	assert.False(t, h.Verify("anything", ""))
}

func TestNewHasher_CostOutOfRange(t *testing.T) {
	h := NewHasher(1000)

	digest, err := h.Hash("pw")
	require.NoError(t, err)
	assert.True(t, h.Verify("pw", digest))
}
