package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"account/config"
	"account/internal/domain/entity"
	"account/internal/domain/service"
	"account/internal/errors"
)

const defaultAccessTTL = 24 * time.Hour

// accessClaims is the JWT payload of an access token.
type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret []byte           // Secret key for signing access tokens.
	accessTTL    time.Duration    // Time-to-live for access tokens.
	issuer       string           // Value of the iss claim; checked on verify when set.
	now          func() time.Time // Clock used for iat/exp and expiry checks.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg == nil || cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	ttl := defaultAccessTTL
	var issuer string
	if cfg.Auth != nil {
		if cfg.Auth.TokenTTL > 0 {
			ttl = cfg.Auth.TokenTTL
		}
		issuer = cfg.Auth.Issuer
	}

	return &jwtService{
		accessSecret: []byte(cfg.SecretKey.Access),
		accessTTL:    ttl,
		issuer:       issuer,
		now:          time.Now,
	}, nil
}

// Issue signs an HS256 access token for the given claims.
func (s *jwtService) Issue(claims entity.TokenClaims) (string, error) {
	now := s.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Email: claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.accessSecret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}

	return signed, nil
}

// Verify checks signature, algorithm, issuer and expiry and returns the embedded claims.
// Every rejection wraps service.ErrInvalidToken.
func (s *jwtService) Verify(tokenString string) (*entity.TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.accessSecret, nil
	}, opts...)
	if err != nil {
		return nil, errors.Wrapf(service.ErrInvalidToken, "failed to parse token: %v", err)
	}
	if !token.Valid {
		return nil, errors.Wrap(service.ErrInvalidToken, "token is not valid")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Wrap(service.ErrInvalidToken, "token subject is not a user id")
	}

	return &entity.TokenClaims{
		UserID: userID,
		Email:  claims.Email,
	}, nil
}
