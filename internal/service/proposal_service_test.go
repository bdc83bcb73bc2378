package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/govledger/internal/governance"
	"github.com/mmynk/govledger/internal/middleware"
	"github.com/mmynk/govledger/internal/models"
	"github.com/mmynk/govledger/internal/storage"
	"github.com/mmynk/govledger/internal/storage/sqlite"
	"github.com/mmynk/govledger/pkg/api"
)

// testCallerHeader names the caller for requests in these tests.
const testCallerHeader = "X-Test-Caller"

// testAuthInterceptor returns a Connect interceptor that takes the caller
// identity from testCallerHeader.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if caller := req.Header().Get(testCallerHeader); caller != "" {
				ctx = middleware.WithIdentity(ctx, models.Identity(caller))
			}
			return next(ctx, req)
		}
	}
}

// as wraps msg in a request sent by caller.
func as[T any](caller string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if caller != "" {
		req.Header().Set(testCallerHeader, caller)
	}
	return req
}

// setupProposalServer creates a test server backed by a temporary SQLite database.
func setupProposalServer(t *testing.T) *api.ProposalServiceClient {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	engine := governance.New(store)
	path, handler := api.NewProposalServiceHandler(NewProposalService(engine), connect.WithInterceptors(testAuthInterceptor()))

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return api.NewProposalServiceClient(http.DefaultClient, server.URL)
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("Expected code %v, got %v (%v)", want, got, err)
	}
}

func expectVoteError(t *testing.T, err error, want governance.VoteError) {
	t.Helper()
	got, ok := api.VoteErrorFrom(err)
	if !ok {
		t.Fatalf("Expected vote error %s, got %v", want, err)
	}
	if got != want {
		t.Errorf("Expected vote error %s, got %s", want, got)
	}
}

func TestProposalService_Scenario(t *testing.T) {
	client := setupProposalServer(t)
	ctx := context.Background()

	created, err := client.CreateProposal(ctx, as("owner", &api.CreateProposalRequest{
		Description: "Raise budget",
		IsActive:    true,
	}))
	if err != nil {
		t.Fatalf("CreateProposal failed: %v", err)
	}
	if created.Msg.Proposal.ID != 1 {
		t.Errorf("Expected id 1, got %d", created.Msg.Proposal.ID)
	}
	if created.Msg.Proposal.Owner != "owner" {
		t.Errorf("Expected owner 'owner', got %s", created.Msg.Proposal.Owner)
	}

	if _, err := client.Vote(ctx, as("alice", &api.VoteRequest{ID: 1, Choice: "Approve"})); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}

	_, err = client.Vote(ctx, as("alice", &api.VoteRequest{ID: 1, Choice: "Approve"}))
	expectCode(t, err, connect.CodeAlreadyExists)
	expectVoteError(t, err, governance.ErrAlreadyVoted)

	if _, err := client.EndProposal(ctx, as("owner", &api.EndProposalRequest{ID: 1})); err != nil {
		t.Fatalf("EndProposal failed: %v", err)
	}

	_, err = client.Vote(ctx, as("bob", &api.VoteRequest{ID: 1, Choice: "Reject"}))
	expectCode(t, err, connect.CodeFailedPrecondition)
	expectVoteError(t, err, governance.ErrProposalIsNotActive)

	_, err = client.EditProposal(ctx, as("bob", &api.EditProposalRequest{ID: 1, Description: "hijack", IsActive: true}))
	expectCode(t, err, connect.CodePermissionDenied)
	expectVoteError(t, err, governance.ErrAccessRejected)

	got, err := client.GetProposal(ctx, as("", &api.GetProposalRequest{ID: 1}))
	if err != nil {
		t.Fatalf("GetProposal failed: %v", err)
	}
	p := got.Msg.Proposal
	if p == nil {
		t.Fatal("Expected proposal, got nil")
	}
	if p.Description != "Raise budget" || p.IsActive || p.Approve != 1 || p.Reject != 0 {
		t.Errorf("Unexpected proposal state: %+v", p)
	}
	if len(p.Voted) != 1 || p.Voted[0] != "alice" {
		t.Errorf("Expected voted [alice], got %v", p.Voted)
	}
}

func TestProposalService_GetProposal_NotFound(t *testing.T) {
	client := setupProposalServer(t)

	resp, err := client.GetProposal(context.Background(), as("", &api.GetProposalRequest{ID: 42}))
	if err != nil {
		t.Fatalf("GetProposal failed: %v", err)
	}
	if resp.Msg.Proposal != nil {
		t.Errorf("Expected no proposal, got %+v", resp.Msg.Proposal)
	}
}

func TestProposalService_GetProposalCount(t *testing.T) {
	client := setupProposalServer(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := client.CreateProposal(ctx, as("owner", &api.CreateProposalRequest{Description: "p", IsActive: true})); err != nil {
			t.Fatalf("CreateProposal failed: %v", err)
		}
	}

	resp, err := client.GetProposalCount(ctx, as("", &api.GetProposalCountRequest{}))
	if err != nil {
		t.Fatalf("GetProposalCount failed: %v", err)
	}
	if resp.Msg.Count != 3 {
		t.Errorf("Expected 3 proposals, got %d", resp.Msg.Count)
	}
}

func TestProposalService_EditProposal(t *testing.T) {
	client := setupProposalServer(t)
	ctx := context.Background()

	if _, err := client.CreateProposal(ctx, as("owner", &api.CreateProposalRequest{Description: "draft"})); err != nil {
		t.Fatalf("CreateProposal failed: %v", err)
	}

	if _, err := client.EditProposal(ctx, as("owner", &api.EditProposalRequest{ID: 1, Description: "final", IsActive: true})); err != nil {
		t.Fatalf("EditProposal failed: %v", err)
	}

	got, err := client.GetProposal(ctx, as("", &api.GetProposalRequest{ID: 1}))
	if err != nil {
		t.Fatalf("GetProposal failed: %v", err)
	}
	if got.Msg.Proposal.Description != "final" || !got.Msg.Proposal.IsActive {
		t.Errorf("Edit not applied: %+v", got.Msg.Proposal)
	}

	_, err = client.EditProposal(ctx, as("owner", &api.EditProposalRequest{ID: 9, Description: "x"}))
	expectCode(t, err, connect.CodeNotFound)
	expectVoteError(t, err, governance.ErrNoSuchProposal)
}

func TestProposalService_RequiresCaller(t *testing.T) {
	client := setupProposalServer(t)
	ctx := context.Background()

	_, err := client.CreateProposal(ctx, as("", &api.CreateProposalRequest{Description: "anon"}))
	expectCode(t, err, connect.CodeUnauthenticated)

	_, err = client.Vote(ctx, as("", &api.VoteRequest{ID: 1, Choice: "Approve"}))
	expectCode(t, err, connect.CodeUnauthenticated)

	_, err = client.EndProposal(ctx, as("", &api.EndProposalRequest{ID: 1}))
	expectCode(t, err, connect.CodeUnauthenticated)
}

func TestProposalService_InvalidInput(t *testing.T) {
	client := setupProposalServer(t)
	ctx := context.Background()

	if _, err := client.CreateProposal(ctx, as("owner", &api.CreateProposalRequest{Description: "p", IsActive: true})); err != nil {
		t.Fatalf("CreateProposal failed: %v", err)
	}

	_, err := client.Vote(ctx, as("alice", &api.VoteRequest{ID: 1, Choice: "Abstain"}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = client.CreateProposal(ctx, as("owner", &api.CreateProposalRequest{
		Description: strings.Repeat("x", storage.MaxRecordSize+1),
	}))
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestProposalService_VoteChoiceCaseInsensitive(t *testing.T) {
	client := setupProposalServer(t)
	ctx := context.Background()

	if _, err := client.CreateProposal(ctx, as("owner", &api.CreateProposalRequest{Description: "p", IsActive: true})); err != nil {
		t.Fatalf("CreateProposal failed: %v", err)
	}
	if _, err := client.Vote(ctx, as("alice", &api.VoteRequest{ID: 1, Choice: "reject"})); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}

	got, err := client.GetProposal(ctx, as("", &api.GetProposalRequest{ID: 1}))
	if err != nil {
		t.Fatalf("GetProposal failed: %v", err)
	}
	if got.Msg.Proposal.Reject != 1 {
		t.Errorf("Expected 1 reject, got %d", got.Msg.Proposal.Reject)
	}
}
