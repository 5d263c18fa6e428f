package service

import (
	"errors"

	"account/internal/domain/entity"
)

// ErrInvalidToken is returned by TokenService.Verify for any token that is
// malformed, badly signed, expired or otherwise unacceptable.
var ErrInvalidToken = errors.New("invalid token")

// TokenService defines the interface for issuing and verifying access tokens.
// The validity window and signature scheme are opaque to the use cases.
type TokenService interface {
	// Issue signs a new access token carrying the given claims.
	Issue(claims entity.TokenClaims) (string, error)

	// Verify checks a token and returns its claims, or an error wrapping ErrInvalidToken.
	Verify(token string) (*entity.TokenClaims, error)
}
