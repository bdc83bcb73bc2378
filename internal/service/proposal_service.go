package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/govledger/internal/governance"
	"github.com/mmynk/govledger/internal/middleware"
	"github.com/mmynk/govledger/internal/models"
	"github.com/mmynk/govledger/pkg/api"
)

var _ api.ProposalServiceHandler = (*ProposalService)(nil)

// ProposalService implements the Connect ProposalService
type ProposalService struct {
	engine *governance.Engine
}

// NewProposalService creates a new ProposalService backed by engine.
func NewProposalService(engine *governance.Engine) *ProposalService {
	return &ProposalService{engine: engine}
}

// callerFrom returns the authenticated identity or an Unauthenticated error.
func callerFrom(ctx context.Context) (models.Identity, error) {
	caller := middleware.GetIdentity(ctx)
	if caller == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	return caller, nil
}

// CreateProposal creates a proposal owned by the caller.
func (s *ProposalService) CreateProposal(ctx context.Context, req *connect.Request[api.CreateProposalRequest]) (*connect.Response[api.CreateProposalResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("CreateProposal request received",
		"caller", caller,
		"description_len", len(req.Msg.Description),
		"is_active", req.Msg.IsActive,
	)

	p, err := s.engine.CreateProposal(ctx, caller, req.Msg.Description, req.Msg.IsActive)
	if err != nil {
		slog.Error("CreateProposal failed", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.CreateProposalResponse{
		Proposal: toAPIProposal(p),
	}), nil
}

// GetProposal returns the proposal, or an empty response if it does not exist.
func (s *ProposalService) GetProposal(ctx context.Context, req *connect.Request[api.GetProposalRequest]) (*connect.Response[api.GetProposalResponse], error) {
	p, err := s.engine.GetProposal(ctx, req.Msg.ID)
	if err != nil {
		slog.Error("GetProposal failed", "proposal_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetProposalResponse{
		Proposal: toAPIProposal(p),
	}), nil
}

// GetProposalCount returns the number of stored proposals.
func (s *ProposalService) GetProposalCount(ctx context.Context, req *connect.Request[api.GetProposalCountRequest]) (*connect.Response[api.GetProposalCountResponse], error) {
	n, err := s.engine.ProposalCount(ctx)
	if err != nil {
		slog.Error("GetProposalCount failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetProposalCountResponse{Count: n}), nil
}

// EditProposal replaces description and activity flag. Owner only.
func (s *ProposalService) EditProposal(ctx context.Context, req *connect.Request[api.EditProposalRequest]) (*connect.Response[api.EditProposalResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("EditProposal request received",
		"proposal_id", req.Msg.ID,
		"caller", caller,
		"is_active", req.Msg.IsActive,
	)

	if err := s.engine.EditProposal(ctx, caller, req.Msg.ID, req.Msg.Description, req.Msg.IsActive); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.EditProposalResponse{}), nil
}

// EndProposal closes the proposal. Owner only.
func (s *ProposalService) EndProposal(ctx context.Context, req *connect.Request[api.EndProposalRequest]) (*connect.Response[api.EndProposalResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("EndProposal request received", "proposal_id", req.Msg.ID, "caller", caller)

	if err := s.engine.EndProposal(ctx, caller, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.EndProposalResponse{}), nil
}

// Vote records the caller's choice on an active proposal.
func (s *ProposalService) Vote(ctx context.Context, req *connect.Request[api.VoteRequest]) (*connect.Response[api.VoteResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}

	choice, err := models.ParseChoice(req.Msg.Choice)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	slog.Info("Vote request received",
		"proposal_id", req.Msg.ID,
		"caller", caller,
		"choice", choice,
	)

	if err := s.engine.Vote(ctx, caller, req.Msg.ID, choice); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.VoteResponse{}), nil
}
