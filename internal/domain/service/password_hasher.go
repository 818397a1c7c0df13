// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import "context"

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
// Both calls are CPU-bound and may block until a hashing slot is free; they honor ctx cancellation.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(ctx context.Context, password string) (string, error)

	// Check compares a plaintext password with a hash to see if they match.
	// An empty hash is compared against a fixed decoy so that a lookup miss
	// costs the same as a wrong password.
	Check(ctx context.Context, password, hash string) (bool, error)
}
