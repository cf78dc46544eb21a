package ledger

import "context"

// Identity is the authenticated user as seen by the ledger.
type Identity struct {
	UserID string
	Email  string
}

// AuthProvider reports the user on whose behalf ctx runs. A false result
// means nobody is signed in.
type AuthProvider interface {
	CurrentUser(ctx context.Context) (Identity, bool)
}

// AuthFunc adapts a function to AuthProvider.
type AuthFunc func(ctx context.Context) (Identity, bool)

// CurrentUser calls f.
func (f AuthFunc) CurrentUser(ctx context.Context) (Identity, bool) { return f(ctx) }

// StaticAuth always reports id. An empty UserID reports nobody.
func StaticAuth(id Identity) AuthProvider {
	return AuthFunc(func(context.Context) (Identity, bool) {
		return id, id.UserID != ""
	})
}
