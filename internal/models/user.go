package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an entry in the user registry.
// Users are not tied to accounts: the identity is whatever the caller
// registered, and EditUser may change it freely.
type User struct {
	// ID is assigned from the registry counter, starting at 1.
	ID uint64

	// Name is the display name of the user.
	Name string

	// Identity is the principal this user claims to be.
	Identity Identity
}

// Account is a set of credentials that can authenticate a caller.
// The account ID doubles as the caller Identity.
type Account struct {
	// ID is the unique identifier for the account (UUID format).
	ID string

	// Email is the login address (unique).
	Email string

	// DisplayName is shown to other callers.
	DisplayName string

	// PasswordHash is the bcrypt hash of the password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}

// NewAccount builds an account with a fresh ID and timestamps.
func NewAccount(email, displayName, passwordHash string) *Account {
	now := time.Now().Unix()
	return &Account{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Identity returns the caller identity represented by this account.
func (a *Account) Identity() Identity {
	return Identity(a.ID)
}
