// internal/auth/context.go

package auth

import "context"

const RoleAdmin = "admin"

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID   int64
	Username string
	Role     string
}

func (i *Identity) IsAdmin() bool { return i != nil && i.Role == RoleAdmin }

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFromContext returns the caller stored by Authenticate.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok && id != nil
}

// GetUserIDFromContext extracts the caller's user id.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return 0, false
	}
	return id.UserID, true
}
