// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	"gatekeeper/internal/delivery/api/middleware"
	"gatekeeper/internal/delivery/api/response"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

var errInvalidBody = domainerrors.ErrValidationFailed.WithMessage("Invalid request body")

// AuthHandler holds dependencies for registration, login and profile handlers.
type AuthHandler struct {
	uc usecase.AuthUsecase
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register handles the user registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var input *usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return errInvalidBody
	}

	output, err := h.uc.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "User registered successfully")
}

// Login handles the user login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input *usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return errInvalidBody
	}

	output, err := h.uc.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// GetProfile returns the profile of the authenticated caller.
func (h *AuthHandler) GetProfile(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return domainerrors.ErrMissingToken
	}

	user, err := h.uc.GetProfile(c.Request().Context(), identity.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "")
}

// UpdateProfile applies a partial name/age update to the authenticated caller.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return domainerrors.ErrMissingToken
	}

	var input *usecase.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return errInvalidBody
	}

	user, err := h.uc.UpdateProfile(c.Request().Context(), identity.UserID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "Profile updated successfully")
}
