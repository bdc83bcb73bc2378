// Package cache wraps a storage.ProposalStore with an LRU of decoded
// proposals. Writes go through to the underlying store before the cache is
// updated, so a failed write never leaves a stale entry behind.
package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mmynk/govledger/internal/models"
	"github.com/mmynk/govledger/internal/storage"
)

var _ storage.ProposalStore = (*Store)(nil)

// Store is a read-through, write-through proposal cache.
// Absent keys are not cached.
type Store struct {
	next storage.ProposalStore
	lru  *lru.Cache[uint64, *models.Proposal]
}

// New wraps next with an LRU holding at most size proposals.
func New(next storage.ProposalStore, size int) (*Store, error) {
	c, err := lru.New[uint64, *models.Proposal](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create proposal cache: %w", err)
	}
	return &Store{next: next, lru: c}, nil
}

// GetProposal serves from the cache, falling back to the wrapped store.
func (s *Store) GetProposal(ctx context.Context, id uint64) (*models.Proposal, error) {
	if p, ok := s.lru.Get(id); ok {
		return p.Clone(), nil
	}
	p, err := s.next.GetProposal(ctx, id)
	if err != nil || p == nil {
		return p, err
	}
	s.lru.Add(id, p.Clone())
	return p, nil
}

// PutProposal writes through and refreshes the cached entry.
func (s *Store) PutProposal(ctx context.Context, id uint64, p *models.Proposal) (*models.Proposal, error) {
	prev, err := s.next.PutProposal(ctx, id, p)
	if err != nil {
		s.lru.Remove(id)
		return nil, err
	}
	s.lru.Add(id, p.Clone())
	return prev, nil
}

// ProposalCount is never cached.
func (s *Store) ProposalCount(ctx context.Context) (uint64, error) {
	return s.next.ProposalCount(ctx)
}

// Len reports how many proposals are currently cached.
func (s *Store) Len() int {
	return s.lru.Len()
}
