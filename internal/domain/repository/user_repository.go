package repository

import (
	"context"
	"errors"

	"gatekeeper/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned by the storage layer when no user matches a lookup.
// The usecase layer decides what a miss means (not found, invalid credentials, ...).
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the persistence operations for users.
// Implementations enforce no business rules except the storage-level unique email constraint,
// reported as domainerrors.ErrDuplicateEmail.
type UserRepository interface {
	Repository[entity.User, uuid.UUID]

	// FindByEmail retrieves a single user by their normalized email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
