// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the account that registers, logs in and owns a profile.
// It is never serialized directly; the delivery layer works with a sanitized view.
type User struct {
	ID           uuid.UUID // Surrogate key assigned at creation, immutable afterwards.
	Name         string    // Display name, never empty.
	Age          int       // Positive age in years.
	Email        string    // Normalized login identifier, unique across all users.
	PasswordHash string    // bcrypt hash of the password. The plaintext is never stored.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail is the single canonical form used for every lookup and insert.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
