package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"gatekeeper/config"
	domainerrors "gatekeeper/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T, maxConcurrent int) *bcryptHasher {
	t.Helper()

	h, err := NewBcryptHasherWithCost(bcrypt.MinCost, maxConcurrent)
	require.NoError(t, err)

	return h.(*bcryptHasher)
}

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := newTestHasher(t, 1)
	ctx := context.Background()

	password := "password123"
	hash, err := hasher.Hash(ctx, password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// Salted: hashing twice yields different output.
	again, err := hasher.Hash(ctx, password)
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)

	ok, err := hasher.Check(ctx, password, hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBcryptHasher_Check(t *testing.T) {
	hasher := newTestHasher(t, 2)
	ctx := context.Background()
	password := "password123"

	hash, err := hasher.Hash(ctx, password)
	require.NoError(t, err)

	ok, err := hasher.Check(ctx, "wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = hasher.Check(ctx, "", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = hasher.Check(ctx, password, "invalid_hash")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_CheckEmptyHashUsesDecoy(t *testing.T) {
	hasher := newTestHasher(t, 1)

	ok, err := hasher.Check(context.Background(), decoyPassword, "")
	require.NoError(t, err)
	assert.False(t, ok, "an absent hash never matches, even the decoy plaintext")
}

func TestBcryptHasher_WithCustomCost(t *testing.T) {
	customCost := 6
	h, err := NewBcryptHasherWithCost(customCost, 1)
	require.NoError(t, err)

	hash, err := h.Hash(context.Background(), "password123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, customCost, cost)
}

func TestBcryptHasher_InvalidCost(t *testing.T) {
	_, err := NewBcryptHasherWithCost(bcrypt.MaxCost+1, 1)
	assert.Error(t, err)

	_, err = NewBcryptHasherWithCost(1, 1)
	assert.Error(t, err)
}

func TestNewBcryptHasher_FromConfig(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost, MaxConcurrentHashes: 3}}

	h, err := NewBcryptHasher(cfg)
	require.NoError(t, err)

	hash, err := h.Hash(context.Background(), "password123")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestBcryptHasher_HonorsContextWhileWaitingForSlot(t *testing.T) {
	hasher := newTestHasher(t, 1)

	// Occupy the only slot.
	require.NoError(t, hasher.slots.Acquire(context.Background(), 1))
	defer hasher.slots.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := hasher.Hash(ctx, "password123")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	ok, err := hasher.Check(ctx, "password123", "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ok)
}

func TestBcryptHasher_PasswordTooLongIsValidationError(t *testing.T) {
	hasher := newTestHasher(t, 1)

	_, err := hasher.Hash(context.Background(), strings.Repeat("é", 40))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}
