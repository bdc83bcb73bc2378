// Package memory provides an in-memory implementation of storage.Store used
// for tests and ephemeral runs. Nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/mmynk/govledger/internal/models"
	"github.com/mmynk/govledger/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps encoded records so the size bound and the copy-on-read
// behavior match the durable backends.
type Store struct {
	mu        sync.RWMutex
	proposals map[uint64][]byte
	sequence  uint64
	accounts  map[string]models.Account
	byEmail   map[string]string
}

// New returns an empty store.
func New() *Store {
	return &Store{
		proposals: make(map[uint64][]byte),
		accounts:  make(map[string]models.Account),
		byEmail:   make(map[string]string),
	}
}

func (s *Store) GetProposal(_ context.Context, id uint64) (*models.Proposal, error) {
	s.mu.RLock()
	record, ok := s.proposals[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return storage.UnmarshalProposal(record)
}

func (s *Store) PutProposal(_ context.Context, id uint64, p *models.Proposal) (*models.Proposal, error) {
	record, err := storage.MarshalProposal(p)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	prevRecord, existed := s.proposals[id]
	s.proposals[id] = record
	s.mu.Unlock()

	if !existed {
		return nil, nil
	}
	return storage.UnmarshalProposal(prevRecord)
}

func (s *Store) ProposalCount(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.proposals)), nil
}

func (s *Store) NextProposalID(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequence++
	return s.sequence, nil
}

func (s *Store) CreateAccount(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[account.Email]; taken {
		return storage.ErrAccountExists
	}
	s.accounts[account.ID] = *account
	s.byEmail[account.Email] = account.ID
	return nil
}

func (s *Store) GetAccountByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	account := s.accounts[id]
	return &account, nil
}

func (s *Store) GetAccountByID(_ context.Context, id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	return &account, nil
}

func (s *Store) Close() error {
	return nil
}
