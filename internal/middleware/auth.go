// Package middleware holds the Connect interceptors shared by every service:
// caller authentication and RPC logging.
package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/govledger/internal/auth"
	"github.com/mmynk/govledger/internal/models"
)

type contextKey string

const (
	// UserIDKey holds the authenticated account ID, which is the caller identity.
	UserIDKey contextKey = "user_id"
	// EmailKey holds the authenticated account email.
	EmailKey contextKey = "email"
)

// GetUserID returns the authenticated account ID, or "" for anonymous calls.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetIdentity returns the caller identity, or "" if the request carried no
// valid token.
func GetIdentity(ctx context.Context) models.Identity {
	return models.Identity(GetUserID(ctx))
}

// WithIdentity returns a context carrying id as the caller identity.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, UserIDKey, string(id))
}

// GetEmail returns the authenticated email, or "".
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. ok is false when the header is present but malformed.
func bearerToken(header string) (token string, present, ok bool) {
	if header == "" {
		return "", false, false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" || strings.Contains(token, " ") {
		return "", true, false
	}
	return token, true, true
}

// authenticate resolves the caller from req. It returns ctx unchanged with
// a nil error when no Authorization header is set.
func authenticate(ctx context.Context, jwtManager *auth.JWTManager, req connect.AnyRequest) (context.Context, bool, error) {
	token, present, ok := bearerToken(req.Header().Get("Authorization"))
	if !present {
		return ctx, false, nil
	}
	if !ok {
		return ctx, false, auth.ErrInvalidToken
	}

	claims, err := jwtManager.Validate(token)
	if err != nil {
		return ctx, false, err
	}

	ctx = WithIdentity(ctx, claims.Identity())
	ctx = context.WithValue(ctx, EmailKey, claims.Email)
	return ctx, true, nil
}

// RequireAuth rejects any request without a valid bearer token and puts the
// caller identity in the context of those that have one.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			ctx, authed, err := authenticate(ctx, jwtManager, req)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			if !authed {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}
			return next(ctx, req)
		}
	}
}

// OptionalAuth attaches the caller identity when a valid token is present
// and lets every request through. Bad tokens are treated as anonymous.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authedCtx, _, err := authenticate(ctx, jwtManager, req)
			if err == nil {
				ctx = authedCtx
			}
			return next(ctx, req)
		}
	}
}

// RequireAuthFor enforces RequireAuth on the listed procedures and behaves
// like OptionalAuth on every other one.
func RequireAuthFor(jwtManager *auth.JWTManager, procedures ...string) connect.UnaryInterceptorFunc {
	required := make(map[string]bool, len(procedures))
	for _, p := range procedures {
		required[p] = true
	}
	strict := RequireAuth(jwtManager)
	lenient := OptionalAuth(jwtManager)

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		strictNext, lenientNext := strict(next), lenient(next)
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if required[req.Spec().Procedure] {
				return strictNext(ctx, req)
			}
			return lenientNext(ctx, req)
		}
	}
}
