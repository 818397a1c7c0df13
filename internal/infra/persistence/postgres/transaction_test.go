package postgres

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"gatekeeper/config"
	"gatekeeper/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTxManager(t *testing.T) (repository.TransactionManager, *userRepository) {
	t.Helper()

	db := newTestDB(t)
	cfg := &config.Config{Storage: config.StorageConfig{QueryTimeout: time.Second}}

	return NewTransactionManager(db, cfg), newUserRepository(db, time.Second)
}

func TestTransactionManager_Commit(t *testing.T) {
	tm, repo := newTestTxManager(t)
	ctx := context.Background()

	user := newTestUser("commit@example.com")
	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		return f.UserRepo().Create(ctx, user)
	})
	require.NoError(t, err)

	stored, err := repo.FindByEmail(ctx, "commit@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestTransactionManager_RollbackOnError(t *testing.T) {
	tm, repo := newTestTxManager(t)
	ctx := context.Background()
	boom := stderrors.New("boom")

	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		if err := f.UserRepo().Create(ctx, newTestUser("rollback@example.com")); err != nil {
			return err
		}

		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.FindByEmail(ctx, "rollback@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestTransactionManager_RollbackOnPanic(t *testing.T) {
	tm, repo := newTestTxManager(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			_ = f.UserRepo().Create(ctx, newTestUser("panic@example.com"))
			panic("boom")
		})
	})

	_, err := repo.FindByEmail(ctx, "panic@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
