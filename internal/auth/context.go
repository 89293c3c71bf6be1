package auth

import "context"

type contextKey struct{}

// Actor identifies the authenticated account behind a request: a parent or
// a child, resolved from the session cookie by middleware.
type Actor struct {
	Role      string
	UserID    int64
	SessionID int64
}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(contextKey{}).(Actor)
	return a, ok
}

func UserID(ctx context.Context) int64 {
	a, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return a.UserID
}

func IsParent(ctx context.Context) bool {
	a, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return a.Role == "parent"
}

func IsChild(ctx context.Context) bool {
	a, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return a.Role == "child"
}
