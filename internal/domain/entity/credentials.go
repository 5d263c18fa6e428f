package entity

import "github.com/google/uuid"

// Credentials is the email/password pair supplied by a caller.
// It is validated and hashed, and is never persisted in this form.
type Credentials struct {
	Email    string
	Password string
}

// TokenClaims is the payload embedded in an issued access token.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
}
