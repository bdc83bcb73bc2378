package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/govledger/internal/governance"
	"github.com/mmynk/govledger/internal/models"
	"github.com/mmynk/govledger/internal/registry"
	"github.com/mmynk/govledger/internal/storage"
	"github.com/mmynk/govledger/pkg/api"
)

// toConnectError maps domain errors to Connect codes. VoteErrors keep their
// name as the message so clients can recover them with api.VoteErrorFrom.
func toConnectError(err error) *connect.Error {
	var voteErr governance.VoteError
	if errors.As(err, &voteErr) {
		return connect.NewError(voteErrorCode(voteErr), voteErr)
	}

	switch {
	case errors.Is(err, governance.ErrMissingIdentity):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, governance.ErrInvalidChoice):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrRecordTooLarge):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, registry.ErrUserNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func voteErrorCode(err governance.VoteError) connect.Code {
	switch err {
	case governance.ErrNoSuchProposal:
		return connect.CodeNotFound
	case governance.ErrAccessRejected:
		return connect.CodePermissionDenied
	case governance.ErrAlreadyVoted:
		return connect.CodeAlreadyExists
	case governance.ErrProposalIsNotActive:
		return connect.CodeFailedPrecondition
	default:
		return connect.CodeAborted
	}
}

func toAPIProposal(p *models.Proposal) *api.Proposal {
	if p == nil {
		return nil
	}
	voted := make([]string, len(p.Voted))
	for i, id := range p.Voted {
		voted[i] = string(id)
	}
	return &api.Proposal{
		ID:          p.ID,
		Description: p.Description,
		Approve:     p.Approve,
		Reject:      p.Reject,
		IsActive:    p.IsActive,
		Voted:       voted,
		Owner:       string(p.Owner),
	}
}

func toAPIUser(u *models.User) *api.User {
	if u == nil {
		return nil
	}
	return &api.User{
		ID:       u.ID,
		Name:     u.Name,
		Identity: string(u.Identity),
	}
}

func toAPIAccount(a *models.Account) *api.Account {
	return &api.Account{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		CreatedAt:   a.CreatedAt,
	}
}
