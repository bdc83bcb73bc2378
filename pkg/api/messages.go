package api

// Proposal is the wire form of a proposal.
type Proposal struct {
	ID          uint64   `json:"id"`
	Description string   `json:"description"`
	Approve     uint32   `json:"approve"`
	Reject      uint32   `json:"reject"`
	IsActive    bool     `json:"is_active"`
	Voted       []string `json:"voted"`
	Owner       string   `json:"owner"`
}

// User is the wire form of a registry entry.
type User struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Identity string `json:"identity"`
}

// Account is the public part of an account. The password hash never leaves
// the server.
type Account struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Identity string `json:"identity"`
}

type CreateUserResponse struct {
	UserID uint64 `json:"user_id"`
}

type GetUserRequest struct {
	UserID uint64 `json:"user_id"`
}

// GetUserResponse carries a nil User when the id is unknown.
type GetUserResponse struct {
	User *User `json:"user,omitempty"`
}

type GetUserCountRequest struct{}

type GetUserCountResponse struct {
	Count uint64 `json:"count"`
}

type EditUserRequest struct {
	UserID   uint64 `json:"user_id"`
	Name     string `json:"name"`
	Identity string `json:"identity"`
}

type EditUserResponse struct{}

type CreateProposalRequest struct {
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

type CreateProposalResponse struct {
	Proposal *Proposal `json:"proposal"`
}

type GetProposalRequest struct {
	ID uint64 `json:"id"`
}

// GetProposalResponse carries a nil Proposal when the id is unknown.
type GetProposalResponse struct {
	Proposal *Proposal `json:"proposal,omitempty"`
}

type GetProposalCountRequest struct{}

type GetProposalCountResponse struct {
	Count uint64 `json:"count"`
}

type EditProposalRequest struct {
	ID          uint64 `json:"id"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

type EditProposalResponse struct{}

type EndProposalRequest struct {
	ID uint64 `json:"id"`
}

type EndProposalResponse struct{}

// VoteRequest.Choice is "Approve" or "Reject".
type VoteRequest struct {
	ID     uint64 `json:"id"`
	Choice string `json:"choice"`
}

type VoteResponse struct{}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by Register and Login. Token goes in the
// Authorization header as "Bearer <token>".
type AuthResponse struct {
	Account *Account `json:"account"`
	Token   string   `json:"token"`
}

type WhoAmIRequest struct{}

type WhoAmIResponse struct {
	Identity string `json:"identity"`
	Email    string `json:"email"`
}
