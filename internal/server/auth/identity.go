package auth

import (
	"context"

	"github.com/dmitrijs2005/linkfeed/internal/common"
)

// Identity is who a request acts as. The zero value is Anonymous.
type Identity struct {
	UserID int64
}

// Anonymous is the identity of a request without a valid credential.
var Anonymous = Identity{}

// IsAnonymous reports whether no user was resolved.
func (i Identity) IsAnonymous() bool {
	return i.UserID == 0
}

type ctxKey struct{}

// WithIdentity attaches id to ctx for the rest of the request.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext returns the identity attached to ctx, or Anonymous.
func IdentityFromContext(ctx context.Context) Identity {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok {
		return Anonymous
	}
	return id
}

// RequireIdentity is the precondition for operations that need a logged-in
// caller. It returns common.ErrUnauthorized for anonymous requests.
func RequireIdentity(ctx context.Context) (Identity, error) {
	id := IdentityFromContext(ctx)
	if id.IsAnonymous() {
		return Anonymous, common.ErrUnauthorized
	}
	return id, nil
}

// Resolver turns a raw bearer credential into an Identity. It trusts the
// user id embedded in a valid token and never consults the user store.
type Resolver struct {
	tokens *TokenService
}

// NewResolver returns a resolver verifying tokens with ts.
func NewResolver(ts *TokenService) *Resolver {
	return &Resolver{tokens: ts}
}

// Resolve returns Anonymous for an empty, malformed, forged or expired
// credential. It never fails.
func (r *Resolver) Resolve(credential string) Identity {
	if credential == "" {
		return Anonymous
	}

	userID, err := r.tokens.Verify(credential)
	if err != nil {
		return Anonymous
	}

	return Identity{UserID: userID}
}
