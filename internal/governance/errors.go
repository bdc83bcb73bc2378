package governance

import "errors"

// VoteError is the closed set of lifecycle failures returned to callers.
// The string value is the wire name of the error.
type VoteError string

func (e VoteError) Error() string { return string(e) }

const (
	// ErrNoSuchProposal: the key is not in the store.
	ErrNoSuchProposal VoteError = "NoSuchProposal"
	// ErrAccessRejected: the caller is not the proposal owner.
	ErrAccessRejected VoteError = "AccessRejected"
	// ErrAlreadyVoted: the caller is already in the voted list.
	ErrAlreadyVoted VoteError = "AlreadyVoted"
	// ErrProposalIsNotActive: the proposal has been closed.
	ErrProposalIsNotActive VoteError = "ProposalIsNotActive"
	// ErrUpdateError: the store reported no previous record for a key that
	// was read moments earlier. Signals a write race or corruption.
	ErrUpdateError VoteError = "UpdateError"
)

// VoteErrors lists every VoteError.
var VoteErrors = []error{
	ErrNoSuchProposal,
	ErrAccessRejected,
	ErrAlreadyVoted,
	ErrProposalIsNotActive,
	ErrUpdateError,
}

// ParseVoteError returns the VoteError named s.
func ParseVoteError(s string) (VoteError, bool) {
	for _, e := range VoteErrors {
		if e.Error() == s {
			return e.(VoteError), true
		}
	}
	return "", false
}

var (
	ErrMissingIdentity = errors.New("caller identity required")
	ErrInvalidChoice   = errors.New("choice must be Approve or Reject")
)
