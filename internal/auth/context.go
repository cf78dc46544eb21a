// Package auth carries the authenticated user through request contexts.
package auth

import (
	"context"

	"carteira/internal/ledger"
)

type identityKey struct{}

// WithIdentity returns a copy of ctx that carries id.
func WithIdentity(ctx context.Context, id ledger.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (ledger.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(ledger.Identity)
	if !ok || id.UserID == "" {
		return ledger.Identity{}, false
	}
	return id, true
}

// ContextProvider resolves the current user from the request context.
type ContextProvider struct{}

var _ ledger.AuthProvider = ContextProvider{}

// CurrentUser implements ledger.AuthProvider.
func (ContextProvider) CurrentUser(ctx context.Context) (ledger.Identity, bool) {
	return FromContext(ctx)
}
