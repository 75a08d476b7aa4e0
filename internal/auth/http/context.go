// Package http provides the HTTP handlers and middleware for registration,
// challenge-response login and session management.
package http

import (
	"context"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
)

type contextKey int

const (
	userKey contextKey = iota
	tokenKey
)

// lookup returns the non-nil *T stored under key.
func lookup[T any](ctx context.Context, key contextKey) (*T, bool) {
	v, ok := ctx.Value(key).(*T)
	return v, ok && v != nil
}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, user *authDomain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser returns the user set by AuthenticationMiddleware.
func GetUser(ctx context.Context) (*authDomain.User, bool) {
	return lookup[authDomain.User](ctx, userKey)
}

// WithToken stores the session token that authenticated the request.
func WithToken(ctx context.Context, token *authDomain.Token) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func GetToken(ctx context.Context) (*authDomain.Token, bool) {
	return lookup[authDomain.Token](ctx, tokenKey)
}
