package httpapi

import (
	"context"

	"github.com/avsfam/firstgoal/internal/domain/user"
)

// principalKey is an unexported struct key, so only RequireAuth can put a
// principal into a request context.
type principalKey struct{}

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(user.Principal)
	return p, ok
}
