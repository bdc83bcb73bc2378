package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/govledger/internal/models"
	"github.com/mmynk/govledger/internal/registry"
	"github.com/mmynk/govledger/pkg/api"
)

var _ api.UserServiceHandler = (*UserService)(nil)

// UserService implements the Connect UserService on top of a Registry.
// None of its procedures check the caller.
type UserService struct {
	users *registry.Registry
}

// NewUserService creates a new UserService.
func NewUserService(users *registry.Registry) *UserService {
	return &UserService{users: users}
}

// CreateUser registers a user and returns the new id.
func (s *UserService) CreateUser(ctx context.Context, req *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error) {
	id := s.users.CreateUser(req.Msg.Name, models.Identity(req.Msg.Identity))
	slog.Info("User created", "user_id", id, "name", req.Msg.Name)
	return connect.NewResponse(&api.CreateUserResponse{UserID: id}), nil
}

// GetUser returns the user, or an empty response if the id is unknown.
func (s *UserService) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	u, _ := s.users.GetUser(req.Msg.UserID)
	return connect.NewResponse(&api.GetUserResponse{User: toAPIUser(u)}), nil
}

// GetUserCount returns the number of registered users.
func (s *UserService) GetUserCount(ctx context.Context, req *connect.Request[api.GetUserCountRequest]) (*connect.Response[api.GetUserCountResponse], error) {
	return connect.NewResponse(&api.GetUserCountResponse{Count: s.users.UserCount()}), nil
}

// EditUser replaces a user's name and identity.
func (s *UserService) EditUser(ctx context.Context, req *connect.Request[api.EditUserRequest]) (*connect.Response[api.EditUserResponse], error) {
	slog.Info("EditUser request received", "user_id", req.Msg.UserID)

	if err := s.users.EditUser(req.Msg.UserID, req.Msg.Name, models.Identity(req.Msg.Identity)); err != nil {
		slog.Warn("EditUser failed", "user_id", req.Msg.UserID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.EditUserResponse{}), nil
}
