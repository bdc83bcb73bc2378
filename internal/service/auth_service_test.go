package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/govledger/internal/auth"
	"github.com/mmynk/govledger/internal/governance"
	"github.com/mmynk/govledger/internal/middleware"
	"github.com/mmynk/govledger/internal/storage/memory"
	"github.com/mmynk/govledger/pkg/api"
)

type authClients struct {
	auth      *api.AuthServiceClient
	proposals *api.ProposalServiceClient
}

// setupAuthServer wires the real JWT interceptors in front of both services.
func setupAuthServer(t *testing.T) authClients {
	t.Helper()

	store := memory.New()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	mux := http.NewServeMux()
	path, handler := api.NewAuthServiceHandler(
		NewAuthService(authenticator, jwtManager, slog.Default()),
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager)),
	)
	mux.Handle(path, handler)

	path, handler = api.NewProposalServiceHandler(
		NewProposalService(governance.New(store)),
		connect.WithInterceptors(middleware.RequireAuthFor(jwtManager,
			api.ProposalServiceCreateProposalProcedure,
			api.ProposalServiceVoteProcedure,
		)),
	)
	mux.Handle(path, handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return authClients{
		auth:      api.NewAuthServiceClient(http.DefaultClient, server.URL),
		proposals: api.NewProposalServiceClient(http.DefaultClient, server.URL),
	}
}

func withToken[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthService_RegisterLoginWhoAmI(t *testing.T) {
	c := setupAuthServer(t)
	ctx := context.Background()

	registered, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if registered.Msg.Token == "" {
		t.Fatal("Expected token")
	}

	login, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.Msg.Account.ID != registered.Msg.Account.ID {
		t.Errorf("Expected account %s, got %s", registered.Msg.Account.ID, login.Msg.Account.ID)
	}

	who, err := c.auth.WhoAmI(ctx, withToken(login.Msg.Token, &api.WhoAmIRequest{}))
	if err != nil {
		t.Fatalf("WhoAmI failed: %v", err)
	}
	if who.Msg.Identity != registered.Msg.Account.ID {
		t.Errorf("Expected identity %s, got %s", registered.Msg.Account.ID, who.Msg.Identity)
	}
	if who.Msg.Email != "alice@example.com" {
		t.Errorf("Expected email alice@example.com, got %s", who.Msg.Email)
	}

	_, err = c.auth.WhoAmI(ctx, withToken("", &api.WhoAmIRequest{}))
	expectCode(t, err, connect.CodeUnauthenticated)
}

func TestAuthService_Errors(t *testing.T) {
	c := setupAuthServer(t)
	ctx := context.Background()

	req := &api.RegisterRequest{Email: "alice@example.com", DisplayName: "Alice", Password: "correct-horse"}
	if _, err := c.auth.Register(ctx, connect.NewRequest(req)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := c.auth.Register(ctx, connect.NewRequest(req))
	expectCode(t, err, connect.CodeAlreadyExists)

	_, err = c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "bob@example.com", DisplayName: "Bob", Password: "short"}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "alice@example.com", Password: "wrong-password"}))
	expectCode(t, err, connect.CodeUnauthenticated)
}

func TestAuthService_TokenIdentityOwnsProposal(t *testing.T) {
	c := setupAuthServer(t)
	ctx := context.Background()

	alice, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "alice@example.com", DisplayName: "Alice", Password: "correct-horse"}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	bob, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "bob@example.com", DisplayName: "Bob", Password: "battery-staple"}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err = c.proposals.CreateProposal(ctx, withToken("", &api.CreateProposalRequest{Description: "anon"}))
	expectCode(t, err, connect.CodeUnauthenticated)

	_, err = c.proposals.CreateProposal(ctx, withToken("forged", &api.CreateProposalRequest{Description: "anon"}))
	expectCode(t, err, connect.CodeUnauthenticated)

	created, err := c.proposals.CreateProposal(ctx, withToken(alice.Msg.Token, &api.CreateProposalRequest{Description: "p", IsActive: true}))
	if err != nil {
		t.Fatalf("CreateProposal failed: %v", err)
	}
	if created.Msg.Proposal.Owner != alice.Msg.Account.ID {
		t.Errorf("Expected owner %s, got %s", alice.Msg.Account.ID, created.Msg.Proposal.Owner)
	}

	if _, err := c.proposals.Vote(ctx, withToken(bob.Msg.Token, &api.VoteRequest{ID: 1, Choice: "Approve"})); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}

	// Reads do not need a token.
	got, err := c.proposals.GetProposal(ctx, withToken("", &api.GetProposalRequest{ID: 1}))
	if err != nil {
		t.Fatalf("GetProposal failed: %v", err)
	}
	if len(got.Msg.Proposal.Voted) != 1 || got.Msg.Proposal.Voted[0] != bob.Msg.Account.ID {
		t.Errorf("Expected voted [%s], got %v", bob.Msg.Account.ID, got.Msg.Proposal.Voted)
	}

	// Bob's token does not make him the owner.
	_, err = c.proposals.EndProposal(ctx, withToken(bob.Msg.Token, &api.EndProposalRequest{ID: 1}))
	expectCode(t, err, connect.CodePermissionDenied)
}
