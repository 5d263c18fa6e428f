// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"account/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to create a new account.
type RegisterInput struct {
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account as stored.
// The user carries its password digest; presentation layers must not expose it.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the access token issued after a successful login.
type LoginOutput struct {
	AccessToken string
}

// AccountUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	// Register validates the credentials, rejects a taken email and stores a new account.
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)

	// Login checks the credentials and issues an access token.
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// Authenticate resolves an access token to the account it was issued for.
	// An empty token means no token was presented.
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}
