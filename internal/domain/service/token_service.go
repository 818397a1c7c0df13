package service

import (
	"time"

	"gatekeeper/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the signed payload of a bearer token.
// Subject carries the user id as a string; UserID is its parsed form.
type Claims struct {
	UserID uuid.UUID `json:"-"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// IssuedToken is a signed token together with its expiry.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenService defines the interface for issuing and verifying bearer tokens.
type TokenService interface {
	// IssueToken signs a token embedding the user's id and email.
	IssueToken(user *entity.User) (*IssuedToken, error)

	// VerifyToken checks signature and expiry and returns the decoded claims.
	// Every failure is reported as domainerrors.ErrInvalidToken.
	VerifyToken(tokenString string) (*Claims, error)
}
