// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"gatekeeper/config"
	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
// Every call runs under its own deadline derived from the caller's context.
type userRepository struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB, cfg *config.Config) repository.UserRepository {
	return newUserRepository(db, cfg.Storage.QueryTimeout)
}

func newUserRepository(db *gorm.DB, queryTimeout time.Duration) *userRepository {
	return &userRepository{
		db:           db,
		queryTimeout: queryTimeout,
	}
}

func (repo *userRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if repo.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, repo.queryTimeout)
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).Take(&userM).Error; err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, translateStorageError(err, "failed to find user by id")
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their normalized email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("email = ?", email).Take(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, translateStorageError(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user. The unique index on email decides races between
// concurrent registrations: exactly one insert wins, the rest get ErrDuplicateEmail.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	// Map the pure domain entity to a GORM persistence model.
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		return translateStorageError(err, "failed to create user")
	}

	// Update the user entity with the generated ID and timestamps
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update writes the mutable columns of an existing user and refreshes UpdatedAt.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Microsecond)

	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"name":          user.Name,
			"age":           user.Age,
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"updated_at":    now,
		})
	if result.Error != nil {
		return translateStorageError(result.Error, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	user.UpdatedAt = now

	return nil
}

// Delete removes a user by id and reports whether a row was removed.
func (repo *userRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.UserModel{})
	if result.Error != nil {
		return false, translateStorageError(result.Error, "failed to delete user")
	}

	return result.RowsAffected > 0, nil
}

// --- Mappers ---

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Name:         data.Name,
		Age:          data.Age,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:           data.ID,
		Name:         data.Name,
		Age:          data.Age,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

var _ repository.UserRepository = (*userRepository)(nil)
