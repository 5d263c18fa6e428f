// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "account/internal/delivery/context"
	"account/internal/domain/entity"
	domainerrors "account/internal/domain/errors"
	"account/internal/domain/repository"
	"account/internal/domain/service"
	"account/internal/domain/validation"
	"account/internal/errors"
	"account/internal/usecase"

	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	rule         *validation.CredentialRule
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Rule         *validation.CredentialRule
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	rule := params.Rule
	if rule == nil {
		rule = validation.NewCredentialRule(validation.DefaultMinPasswordLength, validation.DefaultMaxPasswordLength)
	}

	return &accountService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		rule:         rule,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register validates the input, checks the email is free, hashes the password and stores the account.
func (srv *accountService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	creds := entity.Credentials{
		Email:    strings.TrimSpace(input.Email),
		Password: input.Password,
	}

	if err := srv.rule.Validate(creds); err != nil {
		srv.log(ctx).Debug("Registration input rejected", slog.Any("error", err))

		return nil, errors.Wrap(err, "invalid registration input")
	}

	_, err := srv.userRepo.FindByEmail(ctx, creds.Email)
	switch {
	case err == nil:
		srv.log(ctx).Warn("Registration attempted with existing email", slog.String("email", creds.Email))

		return nil, domainerrors.ErrDuplicateEmail.WrapMessage("email already registered")
	case !errors.Is(err, repository.ErrUserNotFound):
		srv.log(ctx).Error("Failed to look up email during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	digest, err := srv.hasher.Hash(creds.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	user := &entity.User{
		Email:          creds.Email,
		PasswordDigest: digest,
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateEmail) {
			srv.log(ctx).Warn("Email claimed concurrently during registration", slog.String("email", creds.Email))
		} else {
			srv.log(ctx).Error("Failed to create user during registration", slog.Any("error", err))
		}

		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", user.ID))

	return &usecase.RegisterOutput{User: user}, nil
}

// Login verifies the credentials and issues a single access token.
func (srv *accountService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := strings.TrimSpace(input.Email)

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Debug("Login rejected", slog.String("stage", "lookup"))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}
	if err != nil {
		srv.log(ctx).Error("Failed to look up user during login", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !srv.hasher.Compare(input.Password, user.PasswordDigest) {
		srv.log(ctx).Debug("Login rejected", slog.String("stage", "compare"))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	token, err := srv.tokenService.Issue(entity.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		srv.log(ctx).Error("Failed to issue access token", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue access token")
	}

	srv.log(ctx).Debug("Login succeeded", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{AccessToken: token}, nil
}

// Authenticate verifies the token and loads the account it names.
func (srv *accountService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		srv.log(ctx).Debug("Authentication rejected", slog.String("stage", "no_token"))

		return nil, errors.Wrap(domainerrors.ErrAuthenticationRequired, "authentication failed")
	}

	claims, err := srv.tokenService.Verify(token)
	if err != nil {
		srv.log(ctx).Debug("Authentication rejected", slog.String("stage", "verify"), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrAuthenticationRequired, "authentication failed")
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Debug("Authentication rejected", slog.String("stage", "resolve"), slog.Any("userID", claims.UserID))

		return nil, errors.Wrap(domainerrors.ErrAuthenticationRequired, "authentication failed")
	}
	if err != nil {
		srv.log(ctx).Error("Failed to load user during authentication", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return user, nil
}
