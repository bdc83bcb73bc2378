package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	UserServiceName     = "govledger.v1.UserService"
	ProposalServiceName = "govledger.v1.ProposalService"
	AuthServiceName     = "govledger.v1.AuthService"
)

const (
	UserServiceCreateUserProcedure   = "/" + UserServiceName + "/CreateUser"
	UserServiceGetUserProcedure      = "/" + UserServiceName + "/GetUser"
	UserServiceGetUserCountProcedure = "/" + UserServiceName + "/GetUserCount"
	UserServiceEditUserProcedure     = "/" + UserServiceName + "/EditUser"

	ProposalServiceCreateProposalProcedure   = "/" + ProposalServiceName + "/CreateProposal"
	ProposalServiceGetProposalProcedure      = "/" + ProposalServiceName + "/GetProposal"
	ProposalServiceGetProposalCountProcedure = "/" + ProposalServiceName + "/GetProposalCount"
	ProposalServiceEditProposalProcedure     = "/" + ProposalServiceName + "/EditProposal"
	ProposalServiceEndProposalProcedure      = "/" + ProposalServiceName + "/EndProposal"
	ProposalServiceVoteProcedure             = "/" + ProposalServiceName + "/Vote"

	AuthServiceRegisterProcedure = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure    = "/" + AuthServiceName + "/Login"
	AuthServiceWhoAmIProcedure   = "/" + AuthServiceName + "/WhoAmI"
)

// UserServiceHandler is implemented by the server side of UserService.
type UserServiceHandler interface {
	CreateUser(context.Context, *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error)
	GetUser(context.Context, *connect.Request[GetUserRequest]) (*connect.Response[GetUserResponse], error)
	GetUserCount(context.Context, *connect.Request[GetUserCountRequest]) (*connect.Response[GetUserCountResponse], error)
	EditUser(context.Context, *connect.Request[EditUserRequest]) (*connect.Response[EditUserResponse], error)
}

// ProposalServiceHandler is implemented by the server side of ProposalService.
type ProposalServiceHandler interface {
	CreateProposal(context.Context, *connect.Request[CreateProposalRequest]) (*connect.Response[CreateProposalResponse], error)
	GetProposal(context.Context, *connect.Request[GetProposalRequest]) (*connect.Response[GetProposalResponse], error)
	GetProposalCount(context.Context, *connect.Request[GetProposalCountRequest]) (*connect.Response[GetProposalCountResponse], error)
	EditProposal(context.Context, *connect.Request[EditProposalRequest]) (*connect.Response[EditProposalResponse], error)
	EndProposal(context.Context, *connect.Request[EndProposalRequest]) (*connect.Response[EndProposalResponse], error)
	Vote(context.Context, *connect.Request[VoteRequest]) (*connect.Response[VoteResponse], error)
}

// AuthServiceHandler is implemented by the server side of AuthService.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error)
	WhoAmI(context.Context, *connect.Request[WhoAmIRequest]) (*connect.Response[WhoAmIResponse], error)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{Codec()}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{Codec()}, opts...)
}

// NewUserServiceHandler returns the mount path and handler for UserService.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(UserServiceCreateUserProcedure, connect.NewUnaryHandler(UserServiceCreateUserProcedure, svc.CreateUser, opts...))
	mux.Handle(UserServiceGetUserProcedure, connect.NewUnaryHandler(UserServiceGetUserProcedure, svc.GetUser, opts...))
	mux.Handle(UserServiceGetUserCountProcedure, connect.NewUnaryHandler(UserServiceGetUserCountProcedure, svc.GetUserCount, opts...))
	mux.Handle(UserServiceEditUserProcedure, connect.NewUnaryHandler(UserServiceEditUserProcedure, svc.EditUser, opts...))
	return "/" + UserServiceName + "/", mux
}

// NewProposalServiceHandler returns the mount path and handler for ProposalService.
func NewProposalServiceHandler(svc ProposalServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(ProposalServiceCreateProposalProcedure, connect.NewUnaryHandler(ProposalServiceCreateProposalProcedure, svc.CreateProposal, opts...))
	mux.Handle(ProposalServiceGetProposalProcedure, connect.NewUnaryHandler(ProposalServiceGetProposalProcedure, svc.GetProposal, opts...))
	mux.Handle(ProposalServiceGetProposalCountProcedure, connect.NewUnaryHandler(ProposalServiceGetProposalCountProcedure, svc.GetProposalCount, opts...))
	mux.Handle(ProposalServiceEditProposalProcedure, connect.NewUnaryHandler(ProposalServiceEditProposalProcedure, svc.EditProposal, opts...))
	mux.Handle(ProposalServiceEndProposalProcedure, connect.NewUnaryHandler(ProposalServiceEndProposalProcedure, svc.EndProposal, opts...))
	mux.Handle(ProposalServiceVoteProcedure, connect.NewUnaryHandler(ProposalServiceVoteProcedure, svc.Vote, opts...))
	return "/" + ProposalServiceName + "/", mux
}

// NewAuthServiceHandler returns the mount path and handler for AuthService.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(AuthServiceRegisterProcedure, connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...))
	mux.Handle(AuthServiceLoginProcedure, connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...))
	mux.Handle(AuthServiceWhoAmIProcedure, connect.NewUnaryHandler(AuthServiceWhoAmIProcedure, svc.WhoAmI, opts...))
	return "/" + AuthServiceName + "/", mux
}

// UserServiceClient calls UserService.
type UserServiceClient struct {
	createUser   *connect.Client[CreateUserRequest, CreateUserResponse]
	getUser      *connect.Client[GetUserRequest, GetUserResponse]
	getUserCount *connect.Client[GetUserCountRequest, GetUserCountResponse]
	editUser     *connect.Client[EditUserRequest, EditUserResponse]
}

// NewUserServiceClient builds a client for the server at baseURL.
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *UserServiceClient {
	opts = clientOptions(opts)
	return &UserServiceClient{
		createUser:   connect.NewClient[CreateUserRequest, CreateUserResponse](httpClient, baseURL+UserServiceCreateUserProcedure, opts...),
		getUser:      connect.NewClient[GetUserRequest, GetUserResponse](httpClient, baseURL+UserServiceGetUserProcedure, opts...),
		getUserCount: connect.NewClient[GetUserCountRequest, GetUserCountResponse](httpClient, baseURL+UserServiceGetUserCountProcedure, opts...),
		editUser:     connect.NewClient[EditUserRequest, EditUserResponse](httpClient, baseURL+UserServiceEditUserProcedure, opts...),
	}
}

func (c *UserServiceClient) CreateUser(ctx context.Context, req *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error) {
	return c.createUser.CallUnary(ctx, req)
}

func (c *UserServiceClient) GetUser(ctx context.Context, req *connect.Request[GetUserRequest]) (*connect.Response[GetUserResponse], error) {
	return c.getUser.CallUnary(ctx, req)
}

func (c *UserServiceClient) GetUserCount(ctx context.Context, req *connect.Request[GetUserCountRequest]) (*connect.Response[GetUserCountResponse], error) {
	return c.getUserCount.CallUnary(ctx, req)
}

func (c *UserServiceClient) EditUser(ctx context.Context, req *connect.Request[EditUserRequest]) (*connect.Response[EditUserResponse], error) {
	return c.editUser.CallUnary(ctx, req)
}

// ProposalServiceClient calls ProposalService.
type ProposalServiceClient struct {
	createProposal   *connect.Client[CreateProposalRequest, CreateProposalResponse]
	getProposal      *connect.Client[GetProposalRequest, GetProposalResponse]
	getProposalCount *connect.Client[GetProposalCountRequest, GetProposalCountResponse]
	editProposal     *connect.Client[EditProposalRequest, EditProposalResponse]
	endProposal      *connect.Client[EndProposalRequest, EndProposalResponse]
	vote             *connect.Client[VoteRequest, VoteResponse]
}

// NewProposalServiceClient builds a client for the server at baseURL.
func NewProposalServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ProposalServiceClient {
	opts = clientOptions(opts)
	return &ProposalServiceClient{
		createProposal:   connect.NewClient[CreateProposalRequest, CreateProposalResponse](httpClient, baseURL+ProposalServiceCreateProposalProcedure, opts...),
		getProposal:      connect.NewClient[GetProposalRequest, GetProposalResponse](httpClient, baseURL+ProposalServiceGetProposalProcedure, opts...),
		getProposalCount: connect.NewClient[GetProposalCountRequest, GetProposalCountResponse](httpClient, baseURL+ProposalServiceGetProposalCountProcedure, opts...),
		editProposal:     connect.NewClient[EditProposalRequest, EditProposalResponse](httpClient, baseURL+ProposalServiceEditProposalProcedure, opts...),
		endProposal:      connect.NewClient[EndProposalRequest, EndProposalResponse](httpClient, baseURL+ProposalServiceEndProposalProcedure, opts...),
		vote:             connect.NewClient[VoteRequest, VoteResponse](httpClient, baseURL+ProposalServiceVoteProcedure, opts...),
	}
}

func (c *ProposalServiceClient) CreateProposal(ctx context.Context, req *connect.Request[CreateProposalRequest]) (*connect.Response[CreateProposalResponse], error) {
	return c.createProposal.CallUnary(ctx, req)
}

func (c *ProposalServiceClient) GetProposal(ctx context.Context, req *connect.Request[GetProposalRequest]) (*connect.Response[GetProposalResponse], error) {
	return c.getProposal.CallUnary(ctx, req)
}

func (c *ProposalServiceClient) GetProposalCount(ctx context.Context, req *connect.Request[GetProposalCountRequest]) (*connect.Response[GetProposalCountResponse], error) {
	return c.getProposalCount.CallUnary(ctx, req)
}

func (c *ProposalServiceClient) EditProposal(ctx context.Context, req *connect.Request[EditProposalRequest]) (*connect.Response[EditProposalResponse], error) {
	return c.editProposal.CallUnary(ctx, req)
}

func (c *ProposalServiceClient) EndProposal(ctx context.Context, req *connect.Request[EndProposalRequest]) (*connect.Response[EndProposalResponse], error) {
	return c.endProposal.CallUnary(ctx, req)
}

func (c *ProposalServiceClient) Vote(ctx context.Context, req *connect.Request[VoteRequest]) (*connect.Response[VoteResponse], error) {
	return c.vote.CallUnary(ctx, req)
}

// AuthServiceClient calls AuthService.
type AuthServiceClient struct {
	register *connect.Client[RegisterRequest, AuthResponse]
	login    *connect.Client[LoginRequest, AuthResponse]
	whoAmI   *connect.Client[WhoAmIRequest, WhoAmIResponse]
}

// NewAuthServiceClient builds a client for the server at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	opts = clientOptions(opts)
	return &AuthServiceClient{
		register: connect.NewClient[RegisterRequest, AuthResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:    connect.NewClient[LoginRequest, AuthResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		whoAmI:   connect.NewClient[WhoAmIRequest, WhoAmIResponse](httpClient, baseURL+AuthServiceWhoAmIProcedure, opts...),
	}
}

func (c *AuthServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *AuthServiceClient) WhoAmI(ctx context.Context, req *connect.Request[WhoAmIRequest]) (*connect.Response[WhoAmIResponse], error) {
	return c.whoAmI.CallUnary(ctx, req)
}
