package context

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Identity is the caller resolved from a verified bearer token.
// It reflects the claims at issuance; it is not re-read from storage.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// SetIdentity stores the identity on both the echo context and the request context.
func SetIdentity(c echo.Context, identity Identity) {
	c.Set(string(KeyIdentity), identity)

	req := c.Request()
	c.SetRequest(req.WithContext(WithIdentity(req.Context(), identity)))
}

// GetIdentity returns the identity stored by SetIdentity.
func GetIdentity(c echo.Context) (Identity, bool) {
	identity, ok := c.Get(string(KeyIdentity)).(Identity)

	return identity, ok
}

// WithIdentity returns a new context carrying the identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, KeyIdentity, identity)
}

// IdentityFromContext extracts the identity from a standard context.Context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(KeyIdentity).(Identity)

	return identity, ok
}
