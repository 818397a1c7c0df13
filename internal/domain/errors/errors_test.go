package errors

import (
	stderrors "errors"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "catalogue value", err: ErrDuplicateEmail, want: KindDuplicateEmail},
		{name: "wrapped", err: errors.Wrap(ErrInvalidCredentials, "login failed"), want: KindInvalidCredentials},
		{name: "wrap message", err: ErrInvalidToken.WrapMessage("expired"), want: KindInvalidToken},
		{name: "database error", err: NewDatabaseExecuteError(stderrors.New("boom"), "insert"), want: KindInternal},
		{name: "plain error", err: stderrors.New("boom"), want: KindInternal},
		{name: "nil", err: nil, want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestBaseError_WithDetailsKeepsIdentity(t *testing.T) {
	details := []string{"name is required"}
	err := ErrValidationFailed.WithDetails(details)

	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.False(t, errors.Is(err, ErrDuplicateEmail))
	assert.Equal(t, details, err.Details())
	assert.Nil(t, ErrValidationFailed.Details(), "catalogue value must not be mutated")
}

func TestBaseError_WithMessage(t *testing.T) {
	err := ErrValidationFailed.WithMessage("Email and password are required")

	assert.Equal(t, "Email and password are required", err.Message())
	assert.Equal(t, KindValidation, err.Kind())
	assert.True(t, errors.Is(err, ErrValidationFailed))
}

func TestDatabaseExecuteError_HidesCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := NewDatabaseExecuteError(cause, "failed to create user")

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, "Internal server error", err.Message())
	assert.Nil(t, err.Details())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "DuplicateEmail", KindDuplicateEmail.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}
