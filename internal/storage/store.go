// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/govledger/internal/models"
)

// ProposalStore is the durable record store for proposals.
// It only knows whole records: every mutation is a read-modify-write of the
// entire proposal. Callers are responsible for serializing writers.
type ProposalStore interface {
	// GetProposal returns the proposal stored under id.
	// Returns nil and no error if the key is absent.
	GetProposal(ctx context.Context, id uint64) (*models.Proposal, error)

	// PutProposal replaces the whole record stored under id and returns the
	// previous record, or nil if the key was absent.
	// Records larger than MaxRecordSize fail with ErrRecordTooLarge and leave
	// the stored value untouched.
	PutProposal(ctx context.Context, id uint64, p *models.Proposal) (*models.Proposal, error)

	// ProposalCount returns the number of stored proposals.
	ProposalCount(ctx context.Context) (uint64, error)
}

// Sequencer hands out proposal ids from a counter persisted alongside the
// proposal table.
type Sequencer interface {
	// NextProposalID atomically increments the counter and returns the new
	// value. The first call returns 1.
	NextProposalID(ctx context.Context) (uint64, error)
}

// ErrAccountExists is returned by CreateAccount when the email is taken.
var ErrAccountExists = errors.New("account already exists")

// AccountStore persists caller credentials.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *models.Account) error

	// GetAccountByEmail returns nil and no error if no account matches.
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)

	// GetAccountByID returns nil and no error if no account matches.
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
}

// Store is implemented by the durable backends (SQLite, bbolt) and by the
// in-memory store used in tests.
// This abstraction allows swapping storage backends without changing the
// governance engine or the service layer.
type Store interface {
	ProposalStore
	Sequencer
	AccountStore

	// Close releases any resources held by the store.
	Close() error
}
