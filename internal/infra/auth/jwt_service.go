// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"gatekeeper/config"
	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
// The secret and TTL are fixed at construction.
type jwtService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.Token.Secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}
	if cfg.IsProduction() && cfg.Token.Secret == config.DevelopmentTokenSecret {
		return nil, errors.New("jwt secret must be overridden in production")
	}
	if cfg.Token.ExpiresIn <= 0 {
		return nil, errors.New("jwt expiry must be positive")
	}

	return newJWTService(cfg.Token, time.Now), nil
}

func newJWTService(tokenCfg config.TokenConfig, now func() time.Time) *jwtService {
	s := &jwtService{
		secret: []byte(tokenCfg.Secret),
		ttl:    tokenCfg.ExpiresIn,
		issuer: tokenCfg.Issuer,
		now:    now,
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	}
	if tokenCfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(tokenCfg.Issuer))
	}
	s.parser = jwt.NewParser(opts...)

	return s
}

// IssueToken creates a signed token for the user carrying {sub, email, iat, exp}.
func (s *jwtService) IssueToken(user *entity.User) (*service.IssuedToken, error) {
	if user == nil || user.ID == uuid.Nil {
		return nil, errors.New("cannot issue token for user without id")
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := service.Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign token")
	}

	// exp is signed with second precision; report the same instant the token carries.
	return &service.IssuedToken{Token: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// VerifyToken checks the signature, algorithm and expiry of a token.
func (s *jwtService) VerifyToken(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}

	token, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, domainerrors.ErrInvalidToken.WrapMessage(err.Error())
	}
	if !token.Valid {
		return nil, domainerrors.ErrInvalidToken.WrapMessage("token is not valid")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domainerrors.ErrInvalidToken.WrapMessage("subject is not a user id")
	}
	claims.UserID = userID

	return claims, nil
}
