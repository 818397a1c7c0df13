package postgres

import (
	"context"
	"time"

	"gatekeeper/config"
	"gatekeeper/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// gormTransactionManager implements the domain's TransactionManager interface using GORM.
type gormTransactionManager struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

// gormRepositoryFactory implements the domain's RepositoryFactory interface.
// It holds a specific GORM transaction object and uses it to create
// repository instances that are bound to that single transaction.
type gormRepositoryFactory struct {
	tx           *gorm.DB // In GORM, a transaction object is also a *gorm.DB
	queryTimeout time.Duration
}

// UserRepo creates a new user repository instance bound to the transaction.
func (f *gormRepositoryFactory) UserRepo() repository.UserRepository {
	return newUserRepository(f.tx, f.queryTimeout)
}

// NewTransactionManager is the constructor for gormTransactionManager.
// This function will be used as an Fx provider.
func NewTransactionManager(db *gorm.DB, cfg *config.Config) repository.TransactionManager {
	return &gormTransactionManager{db: db, queryTimeout: cfg.Storage.QueryTimeout}
}

// Execute runs the given function within a single database transaction.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	tx := tm.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return translateStorageError(tx.Error, "failed to begin transaction")
	}

	// Roll back if the callback panics, then re-panic for the caller to handle.
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	factory := &gormRepositoryFactory{tx: tx, queryTimeout: tm.queryTimeout}

	if err := fn(factory); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			// Return the original, more meaningful business error.
			return errors.Wrapf(err, "transaction rollback failed: %v", rbErr)
		}

		return err
	}

	if err := tx.Commit().Error; err != nil {
		return translateStorageError(err, "failed to commit transaction")
	}

	return nil
}
