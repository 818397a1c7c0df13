// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"gatekeeper/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Age      int    `json:"age" validate:"gt=0,lte=150"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileInput carries the profile fields a user may change. Nil means unchanged.
type UpdateProfileInput struct {
	Name *string `json:"name" validate:"omitnil,min=1,max=100"`
	Age  *int    `json:"age" validate:"omitnil,gt=0,lte=150"`
}

// --- Output DTOs ---

// UserView is the sanitized representation of a user. It never carries the password hash.
type UserView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUserView builds the sanitized view of a user.
func NewUserView(user *entity.User) UserView {
	return UserView{
		ID:        user.ID,
		Name:      user.Name,
		Age:       user.Age,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// AuthOutput returns the user together with a freshly issued bearer token.
type AuthOutput struct {
	User      UserView  `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthUsecase defines the interface for credential and profile operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserView, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*UserView, error)
}
