// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"context"
	"runtime"

	"gatekeeper/config"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

const decoyPassword = "gatekeeper-decoy-password"

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost      int
	slots     *semaphore.Weighted // Bounds concurrent bcrypt computations.
	decoyHash []byte
}

// NewBcryptHasher builds the hasher from the auth configuration.
func NewBcryptHasher(cfg *config.Config) (service.PasswordHasher, error) {
	cost, maxConcurrent := bcrypt.DefaultCost, runtime.GOMAXPROCS(0)
	if cfg != nil && cfg.Auth != nil {
		cost = cfg.Auth.BcryptCost
		if cfg.Auth.MaxConcurrentHashes > 0 {
			maxConcurrent = cfg.Auth.MaxConcurrentHashes
		}
	}

	return NewBcryptHasherWithCost(cost, maxConcurrent)
}

// NewBcryptHasherWithCost creates a hasher with an explicit cost and concurrency bound.
func NewBcryptHasherWithCost(cost, maxConcurrent int) (service.PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	decoy, err := bcrypt.GenerateFromPassword([]byte(decoyPassword), cost)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare decoy hash")
	}

	return &bcryptHasher{
		cost:      cost,
		slots:     semaphore.NewWeighted(int64(maxConcurrent)),
		decoyHash: decoy,
	}, nil
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", errors.Wrap(err, "waiting for hashing slot")
	}
	defer h.slots.Release(1)

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domainerrors.ErrValidationFailed.WithMessage("Password must be at most 72 bytes")
	}
	if err != nil {
		return "", errors.Wrap(err, "bcrypt generate")
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
// A mismatch is reported as (false, nil); a malformed stored hash is an error.
func (h *bcryptHasher) Check(ctx context.Context, password, hash string) (bool, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return false, errors.Wrap(err, "waiting for hashing slot")
	}
	defer h.slots.Release(1)

	if hash == "" {
		// Burn the same amount of work as a real comparison, then fail.
		_ = bcrypt.CompareHashAndPassword(h.decoyHash, []byte(password))

		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, errors.Wrap(err, "bcrypt compare")
	}
}
