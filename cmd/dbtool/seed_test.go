package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	mockRepo "gatekeeper/internal/mocks/repository"
	mockUsecase "gatekeeper/internal/mocks/usecase"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSeed_SkipsExistingUsers(t *testing.T) {
	uc := mockUsecase.NewMockAuthUsecase(t)

	uc.EXPECT().Register(mock.Anything, mock.MatchedBy(func(in *usecase.RegisterInput) bool {
		return in.Email == "john@example.com"
	})).Return(nil, domainerrors.ErrDuplicateEmail).Once()
	uc.EXPECT().Register(mock.Anything, mock.MatchedBy(func(in *usecase.RegisterInput) bool {
		return in.Email != "john@example.com" && in.Password == demoPassword
	})).Return(&usecase.AuthOutput{}, nil).Twice()

	require.NoError(t, seed(context.Background(), uc, discardLogger()))
}

func TestSeed_StopsOnOtherErrors(t *testing.T) {
	uc := mockUsecase.NewMockAuthUsecase(t)
	uc.EXPECT().Register(mock.Anything, mock.Anything).Return(nil, domainerrors.ErrStorageUnavailable).Once()

	err := seed(context.Background(), uc, discardLogger())
	assert.True(t, errors.Is(err, domainerrors.ErrStorageUnavailable))
}

func TestUnseed_DeletesOnlyExistingUsers(t *testing.T) {
	repo := mockRepo.NewMockUserRepository(t)
	johnID := uuid.New()

	repo.EXPECT().FindByEmail(mock.Anything, "john@example.com").Return(&entity.User{ID: johnID}, nil)
	repo.EXPECT().FindByEmail(mock.Anything, "jane@example.com").Return(nil, repository.ErrUserNotFound)
	repo.EXPECT().FindByEmail(mock.Anything, "bob@example.com").Return(nil, repository.ErrUserNotFound)
	repo.EXPECT().Delete(mock.Anything, johnID).Return(true, nil).Once()

	require.NoError(t, unseed(context.Background(), repo, discardLogger()))
}
