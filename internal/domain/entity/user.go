// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account record owned by the user store.
// It is created by registration and only read afterwards.
type User struct {
	ID             uuid.UUID // Generated by the store when the account is created.
	Email          string    // Unique across all accounts; used as the login identifier.
	PasswordDigest string    // One-way hash of the password. Never the raw password.
	CreatedAt      time.Time // Timestamp of when this account was created.
	UpdatedAt      time.Time // Timestamp of the last modification to this account.
}
