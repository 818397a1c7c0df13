package middleware

import (
	"strings"

	deliverycontext "gatekeeper/internal/delivery/context"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/service"

	"github.com/labstack/echo/v4"
)

const bearerScheme = "bearer"

// AuthMiddleware provides middleware for bearer token authentication.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer token and attaches the caller's identity.
// The user record is not re-fetched; claims are trusted as of issuance.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return domainerrors.ErrMissingToken
		}

		claims, err := m.tokenSvc.VerifyToken(tokenString)
		if err != nil {
			return err
		}

		deliverycontext.SetIdentity(c, deliverycontext.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
		})

		return next(c)
	}
}

// GetIdentity returns the identity attached by Authenticate.
func GetIdentity(c echo.Context) (deliverycontext.Identity, bool) {
	return deliverycontext.GetIdentity(c)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	return token, true
}
