package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(email string) *entity.User {
	return &entity.User{
		Name:         "John Doe",
		Age:          30,
		Email:        email,
		PasswordHash: "$2a$04$hash",
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := newUserRepository(newTestDB(t), time.Second)
	ctx := context.Background()

	user := newTestUser("john@example.com")
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, uuid.Version(7), user.ID.Version())
	assert.False(t, user.CreatedAt.IsZero())
	assert.False(t, user.UpdatedAt.IsZero())

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byID.ID)
	assert.Equal(t, "John Doe", byID.Name)
	assert.Equal(t, 30, byID.Age)
	assert.Equal(t, "$2a$04$hash", byID.PasswordHash)

	byEmail, err := repo.FindByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := newUserRepository(newTestDB(t), time.Second)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	err = repo.Update(ctx, &entity.User{ID: uuid.New(), Name: "Ghost", Age: 1, Email: "ghost@example.com"})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	repo := newUserRepository(newTestDB(t), time.Second)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("dup@example.com")))

	err := repo.Create(ctx, newTestUser("dup@example.com"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))
	assert.Equal(t, domainerrors.KindDuplicateEmail, domainerrors.KindOf(err))
}

func TestUserRepository_ConcurrentCreateSameEmail(t *testing.T) {
	repo := newUserRepository(newTestDB(t), 5*time.Second)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dupes     int
	)

	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			user := newTestUser("race@example.com")
			user.Name = fmt.Sprintf("Racer %d", i)
			err := repo.Create(ctx, user)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domainerrors.ErrDuplicateEmail):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, dupes)
}

func TestUserRepository_Update(t *testing.T) {
	repo := newUserRepository(newTestDB(t), time.Second)
	ctx := context.Background()

	user := newTestUser("john@example.com")
	require.NoError(t, repo.Create(ctx, user))
	createdAt := user.CreatedAt
	before := user.UpdatedAt

	time.Sleep(2 * time.Millisecond)
	user.Name = "John Updated"
	user.Age = 31
	require.NoError(t, repo.Update(ctx, user))
	assert.True(t, user.UpdatedAt.After(before))

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Updated", stored.Name)
	assert.Equal(t, 31, stored.Age)
	assert.Equal(t, "john@example.com", stored.Email)
	assert.WithinDuration(t, createdAt, stored.CreatedAt, time.Millisecond)
}

func TestUserRepository_UpdateToTakenEmail(t *testing.T) {
	repo := newUserRepository(newTestDB(t), time.Second)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("taken@example.com")))
	other := newTestUser("other@example.com")
	require.NoError(t, repo.Create(ctx, other))

	other.Email = "taken@example.com"
	err := repo.Update(ctx, other)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))
}

func TestUserRepository_Delete(t *testing.T) {
	repo := newUserRepository(newTestDB(t), time.Second)
	ctx := context.Background()

	user := newTestUser("john@example.com")
	require.NoError(t, repo.Create(ctx, user))

	deleted, err := repo.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_ExpiredContextIsStorageUnavailable(t *testing.T) {
	repo := newUserRepository(newTestDB(t), time.Second)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := repo.FindByEmail(ctx, "john@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrStorageUnavailable))
	assert.Equal(t, domainerrors.KindStorageUnavailable, domainerrors.KindOf(err))
}
