package models

import (
	"fmt"
	"slices"
	"strings"
)

// Identity is the authenticated principal attached to a request.
type Identity string

// Choice is the outcome of a single vote.
type Choice int

const (
	// ChoiceUnspecified is the zero value and is never a valid vote.
	ChoiceUnspecified Choice = iota
	ChoiceApprove
	ChoiceReject
)

// String returns the canonical name of the choice.
func (c Choice) String() string {
	switch c {
	case ChoiceApprove:
		return "Approve"
	case ChoiceReject:
		return "Reject"
	default:
		return "Unspecified"
	}
}

// ParseChoice converts "Approve" or "Reject" (case-insensitive) to a Choice.
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approve":
		return ChoiceApprove, nil
	case "reject":
		return ChoiceReject, nil
	default:
		return ChoiceUnspecified, fmt.Errorf("unknown choice %q", s)
	}
}

// Proposal is the central entity of the ledger.
// It is always read and written as a whole record.
type Proposal struct {
	// ID is the unique numeric key assigned at creation. Immutable.
	ID uint64

	// Description is free-form text supplied by the owner.
	Description string

	// Approve counts votes for ChoiceApprove. Never decreases.
	Approve uint32

	// Reject counts votes for ChoiceReject. Never decreases.
	Reject uint32

	// IsActive gates voting. Set at creation, cleared by EndProposal.
	IsActive bool

	// Voted lists every identity that has voted, in voting order.
	// Membership is permanent. Lookups are a linear scan, which bounds how
	// many electors a single proposal can reasonably hold.
	Voted []Identity

	// Owner is the identity of the creator. Immutable.
	Owner Identity
}

// HasVoted reports whether id appears in Voted.
func (p *Proposal) HasVoted(id Identity) bool {
	return slices.Contains(p.Voted, id)
}

// Clone returns a deep copy so callers never share the Voted slice.
func (p *Proposal) Clone() *Proposal {
	if p == nil {
		return nil
	}
	c := *p
	c.Voted = slices.Clone(p.Voted)
	return &c
}
