// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "gatekeeper/internal/delivery/context"
	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/usecase"
	"gatekeeper/internal/validation"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	validator    *validation.Validator
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Validator    *validation.Validator
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		validator:    params.Validator,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates an account and signs the user in.
// The lookup by email is advisory; the storage unique index settles concurrent registrations.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	if input == nil {
		return nil, domainerrors.ErrValidationFailed.WithMessage("Request body is required")
	}

	normalized := *input
	normalized.Name = strings.TrimSpace(input.Name)
	normalized.Email = entity.NormalizeEmail(input.Email)
	if err := srv.validator.Struct(&normalized); err != nil {
		return nil, err
	}

	_, err := srv.userRepo.FindByEmail(ctx, normalized.Email)
	switch {
	case err == nil:
		return nil, domainerrors.ErrDuplicateEmail
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, errors.Wrap(err, "failed to check existing email")
	}

	hash, err := srv.hasher.Hash(ctx, normalized.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &entity.User{
		Name:         normalized.Name,
		Age:          normalized.Age,
		Email:        normalized.Email,
		PasswordHash: hash,
	}
	if err := srv.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}

	output, err := srv.signIn(user)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User registered", slog.String("user_id", user.ID.String()))

	return output, nil
}

// Login verifies credentials. An unknown email and a wrong password produce the same error,
// and both cost one bcrypt comparison.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	if input == nil || strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, domainerrors.ErrValidationFailed.WithMessage("Email and password are required")
	}

	email := entity.NormalizeEmail(input.Email)

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		if _, checkErr := srv.hasher.Check(ctx, input.Password, ""); checkErr != nil {
			return nil, errors.Wrap(checkErr, "failed to verify password")
		}
		srv.log(ctx).Info("Login rejected", slog.String("reason", "unknown email"))

		return nil, domainerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user by email")
	}

	ok, err := srv.hasher.Check(ctx, input.Password, user.PasswordHash)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify password")
	}
	if !ok {
		srv.log(ctx).Info("Login rejected", slog.String("reason", "password mismatch"), slog.String("user_id", user.ID.String()))

		return nil, domainerrors.ErrInvalidCredentials
	}

	return srv.signIn(user)
}

// GetProfile returns the sanitized view of a user.
func (srv *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*usecase.UserView, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, mapUserLookupError(err)
	}

	view := usecase.NewUserView(user)

	return &view, nil
}

// UpdateProfile applies a partial update to name and age inside a transaction.
func (srv *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*usecase.UserView, error) {
	if input == nil || (input.Name == nil && input.Age == nil) {
		return nil, domainerrors.ErrValidationFailed.WithMessage("At least one of name or age is required")
	}

	normalized := *input
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		normalized.Name = &name
	}
	if err := srv.validator.Struct(&normalized); err != nil {
		return nil, err
	}

	var updated *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return mapUserLookupError(err)
		}

		if normalized.Name != nil {
			user.Name = *normalized.Name
		}
		if normalized.Age != nil {
			user.Age = *normalized.Age
		}

		if err := userRepo.Update(ctx, user); err != nil {
			return mapUserLookupError(err)
		}
		updated = user

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Profile updated", slog.String("user_id", userID.String()))

	view := usecase.NewUserView(updated)

	return &view, nil
}

func (srv *authService) signIn(user *entity.User) (*usecase.AuthOutput, error) {
	issued, err := srv.tokenService.IssueToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token")
	}

	return &usecase.AuthOutput{
		User:      usecase.NewUserView(user),
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
	}, nil
}

func mapUserLookupError(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return domainerrors.ErrUserNotFound
	}

	return errors.Wrap(err, "failed to load user")
}
