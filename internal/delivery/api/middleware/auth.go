package middleware

import (
	"strings"

	deliverycontext "account/internal/delivery/context"
	"account/internal/errors"
	"account/internal/infra/metrics"
	"account/internal/usecase"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "bearer "

// AuthMiddleware resolves the bearer token of a request into the calling user.
type AuthMiddleware struct {
	uc      usecase.AccountUsecase
	metrics *metrics.Recorder
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(uc usecase.AccountUsecase, recorder *metrics.Recorder) *AuthMiddleware {
	return &AuthMiddleware{uc: uc, metrics: recorder}
}

// Authenticate rejects requests whose bearer token does not resolve to a live account.
// A missing or malformed header is handed to the use case as an empty token so
// every rejection produces the same response.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))

		user, err := m.uc.Authenticate(c.Request().Context(), token)
		m.metrics.ObserveAuthentication(err)
		if err != nil {
			return errors.WithStack(err)
		}

		deliverycontext.SetUser(c, user)

		return next(c)
	}
}

// BearerToken extracts the token from an Authorization header value.
// It returns "" when the header does not use the Bearer scheme.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}

	return strings.TrimSpace(header[len(bearerPrefix):])
}
