// Package governance implements the proposal lifecycle and voting rules on
// top of a whole-record proposal store.
//
// Every mutating operation reads the entire record, changes it in memory and
// writes the entire record back. The Engine serializes those cycles with a
// single lock, so at most one update runs at a time while reads proceed in
// parallel.
package governance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/govledger/internal/metrics"
	"github.com/mmynk/govledger/internal/models"
	"github.com/mmynk/govledger/internal/storage"
)

// IDPolicy selects how CreateProposal assigns ids.
type IDPolicy string

const (
	// IDPolicyCardinality assigns ProposalCount()+1. It only yields unique ids
	// while proposals are never deleted.
	IDPolicyCardinality IDPolicy = "cardinality"
	// IDPolicySequence draws ids from a counter persisted next to the
	// proposals, independent of how many records exist.
	IDPolicySequence IDPolicy = "sequence"
)

// Engine enforces ownership and one-vote-per-identity rules.
type Engine struct {
	mu      sync.RWMutex
	store   storage.ProposalStore
	seq     storage.Sequencer
	policy  IDPolicy
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSequence switches id assignment to IDPolicySequence using seq.
func WithSequence(seq storage.Sequencer) Option {
	return func(e *Engine) {
		e.seq = seq
		e.policy = IDPolicySequence
	}
}

// WithMetrics records lifecycle counters to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine over store. Ids follow IDPolicyCardinality unless
// WithSequence is given.
func New(store storage.ProposalStore, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		policy: IDPolicyCardinality,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy reports the active id policy.
func (e *Engine) Policy() IDPolicy {
	return e.policy
}

// GetProposal returns the proposal stored under id, or nil if absent.
func (e *Engine) GetProposal(ctx context.Context, id uint64) (*models.Proposal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.GetProposal(ctx, id)
}

// ProposalCount returns the number of stored proposals.
func (e *Engine) ProposalCount(ctx context.Context) (uint64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.ProposalCount(ctx)
}

// CreateProposal stores a new proposal owned by caller.
func (e *Engine) CreateProposal(ctx context.Context, caller models.Identity, description string, isActive bool) (*models.Proposal, error) {
	if caller == "" {
		return nil, ErrMissingIdentity
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id, err := e.nextID(ctx)
	if err != nil {
		return nil, err
	}

	// The cardinality policy cannot see gaps, so make sure we never
	// overwrite an existing record.
	existing, err := e.store.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		e.logger.Error("Proposal id already taken", "proposal_id", id, "policy", e.policy)
		e.metrics.Rejected(ErrUpdateError.Error())
		return nil, fmt.Errorf("proposal id %d already taken: %w", id, ErrUpdateError)
	}

	p := &models.Proposal{
		ID:          id,
		Description: description,
		IsActive:    isActive,
		Owner:       caller,
	}
	if _, err := e.store.PutProposal(ctx, id, p); err != nil {
		e.logger.Error("CreateProposal failed", "proposal_id", id, "error", err)
		return nil, err
	}

	e.metrics.ProposalCreated()
	e.logger.Info("Proposal created", "proposal_id", id, "owner", caller, "is_active", isActive)
	return p, nil
}

func (e *Engine) nextID(ctx context.Context) (uint64, error) {
	if e.policy == IDPolicySequence {
		return e.seq.NextProposalID(ctx)
	}
	n, err := e.store.ProposalCount(ctx)
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

// EditProposal replaces the description and activity flag. Only the owner
// may edit, in either state. Counters, voters and owner are preserved.
func (e *Engine) EditProposal(ctx context.Context, caller models.Identity, id uint64, description string, isActive bool) error {
	return e.update(ctx, "EditProposal", id, func(p *models.Proposal) error {
		if p.Owner != caller {
			return ErrAccessRejected
		}
		p.Description = description
		p.IsActive = isActive
		return nil
	})
}

// EndProposal closes the proposal. Only the owner may close it.
func (e *Engine) EndProposal(ctx context.Context, caller models.Identity, id uint64) error {
	return e.update(ctx, "EndProposal", id, func(p *models.Proposal) error {
		if p.Owner != caller {
			return ErrAccessRejected
		}
		p.IsActive = false
		return nil
	})
}

// Vote records caller's choice. Checks run in a fixed order: existence,
// then already-voted, then active state. A caller who voted before the
// proposal closed therefore gets ErrAlreadyVoted, not ErrProposalIsNotActive.
func (e *Engine) Vote(ctx context.Context, caller models.Identity, id uint64, choice models.Choice) error {
	if caller == "" {
		return ErrMissingIdentity
	}
	if choice != models.ChoiceApprove && choice != models.ChoiceReject {
		return ErrInvalidChoice
	}

	err := e.update(ctx, "Vote", id, func(p *models.Proposal) error {
		if p.HasVoted(caller) {
			return ErrAlreadyVoted
		}
		if !p.IsActive {
			return ErrProposalIsNotActive
		}
		switch choice {
		case models.ChoiceApprove:
			p.Approve++
		case models.ChoiceReject:
			p.Reject++
		}
		p.Voted = append(p.Voted, caller)
		return nil
	})
	if err == nil {
		e.metrics.VoteRecorded(choice.String())
	}
	return err
}

// update runs one read-modify-write cycle under the write lock.
// mutate works on a private copy; nothing is written if it fails.
func (e *Engine) update(ctx context.Context, op string, id uint64, mutate func(*models.Proposal) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.store.GetProposal(ctx, id)
	if err != nil {
		e.logger.Error(op+" failed to read proposal", "proposal_id", id, "error", err)
		return err
	}
	if p == nil {
		return e.reject(op, id, ErrNoSuchProposal)
	}

	if err := mutate(p); err != nil {
		return e.reject(op, id, err)
	}

	prev, err := e.store.PutProposal(ctx, id, p)
	if err != nil {
		e.logger.Error(op+" failed to write proposal", "proposal_id", id, "error", err)
		return err
	}
	if prev == nil {
		return e.reject(op, id, ErrUpdateError)
	}

	e.logger.Info(op+" applied",
		"proposal_id", id,
		"approve", p.Approve,
		"reject", p.Reject,
		"is_active", p.IsActive,
	)
	return nil
}

func (e *Engine) reject(op string, id uint64, err error) error {
	e.logger.Warn(op+" rejected", "proposal_id", id, "error", err)
	e.metrics.Rejected(metrics.Reason(err, VoteErrors...))
	return err
}
