package main

import (
	"context"
	"log/slog"

	"gatekeeper/config"
	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/infra/auth"
	"gatekeeper/internal/infra/persistence/postgres"
	"gatekeeper/internal/usecase"
	"gatekeeper/internal/usecase/impl"
	"gatekeeper/internal/validation"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const demoPassword = "password123"

var demoUsers = []usecase.RegisterInput{
	{Name: "John Doe", Age: 30, Email: "john@example.com", Password: demoPassword},
	{Name: "Jane Smith", Age: 25, Email: "jane@example.com", Password: demoPassword},
	{Name: "Bob Johnson", Age: 35, Email: "bob@example.com", Password: demoPassword},
}

func newAuthService(db *gorm.DB, cfg *config.Config, logger *slog.Logger) (usecase.AuthUsecase, error) {
	hasher, err := auth.NewBcryptHasher(cfg)
	if err != nil {
		return nil, err
	}
	tokenSvc, err := auth.NewJWTService(cfg)
	if err != nil {
		return nil, err
	}

	return impl.NewAuthService(impl.AuthServiceParams{
		TxManager:    postgres.NewTransactionManager(db, cfg),
		UserRepo:     postgres.NewUserRepository(db, cfg),
		Hasher:       hasher,
		TokenService: tokenSvc,
		Validator:    validation.New(),
		Logger:       logger,
	}), nil
}

// seed registers the demo users through the regular registration path.
// Users that already exist are skipped.
func seed(ctx context.Context, uc usecase.AuthUsecase, logger *slog.Logger) error {
	for _, demo := range demoUsers {
		input := demo

		_, err := uc.Register(ctx, &input)
		if domainerrors.KindOf(err) == domainerrors.KindDuplicateEmail {
			logger.Info("Seed user already exists", slog.String("email", demo.Email))

			continue
		}
		if err != nil {
			return errors.Wrapf(err, "failed to seed %s", demo.Email)
		}

		logger.Info("Seeded user", slog.String("email", demo.Email))
	}

	return nil
}

// unseed deletes the demo users if present.
func unseed(ctx context.Context, repo repository.UserRepository, logger *slog.Logger) error {
	for _, demo := range demoUsers {
		user, err := repo.FindByEmail(ctx, entity.NormalizeEmail(demo.Email))
		if errors.Is(err, repository.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "failed to look up %s", demo.Email)
		}

		if _, err := repo.Delete(ctx, user.ID); err != nil {
			return errors.Wrapf(err, "failed to delete %s", demo.Email)
		}

		logger.Info("Removed seed user", slog.String("email", demo.Email))
	}

	return nil
}
