// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"account/internal/delivery/api/response"
	deliverycontext "account/internal/delivery/context"
	"account/internal/domain/entity"
	domainerrors "account/internal/domain/errors"
	"account/internal/errors"
	"account/internal/infra/metrics"
	"account/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CredentialsRequest is the body accepted by registration and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of an account. The password digest never leaves the service.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// TokenResponse carries the access token issued by a successful login.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

// MeResponse echoes the identity of an authenticated caller.
type MeResponse struct {
	Message string    `json:"message"`
	UserID  uuid.UUID `json:"userId"`
	Email   string    `json:"email"`
}

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc      usecase.AccountUsecase
	metrics *metrics.Recorder
	logger  *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, recorder *metrics.Recorder, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:      uc,
		metrics: recorder,
		logger:  logger,
	}
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	output, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	h.metrics.ObserveRegistration(err)
	if err != nil {
		return errors.WithStack(err)
	}

	deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).Info("Account registered",
		slog.String("user_id", output.User.ID.String()),
	)

	return response.Success(c, http.StatusCreated, toUserResponse(output.User))
}

// Login handles the login request.
func (h *AccountHandler) Login(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	h.metrics.ObserveLogin(err)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, TokenResponse{
		AccessToken: output.AccessToken,
		TokenType:   "Bearer",
	})
}

// Me returns the caller resolved by the auth middleware.
func (h *AccountHandler) Me(c echo.Context) error {
	user, ok := deliverycontext.GetUser(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrAuthenticationRequired)
	}

	return response.Success(c, http.StatusOK, MeResponse{
		Message: "Access granted",
		UserID:  user.ID,
		Email:   user.Email,
	})
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

func toUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
