// internal/auth/middleware.go
// Bearer token verification for tokens minted by the identity service

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gymmatch/gymmatch-backend/internal/common/utils"
	"github.com/gymmatch/gymmatch-backend/internal/logging"
)

var (
	ErrMissingToken = errors.New("missing or invalid authorization header")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrInactiveUser = errors.New("account is disabled")
)

// UserStatusChecker reports whether a user may use the API (exists and is not banned).
type UserStatusChecker interface {
	IsActive(ctx context.Context, userID int64) (bool, error)
}

// Middleware provides authentication middleware
type Middleware struct {
	secret string
	users  UserStatusChecker
}

// NewMiddleware creates a new auth middleware. users may be nil to skip the status check.
func NewMiddleware(secret string, users UserStatusChecker) *Middleware {
	return &Middleware{secret: secret, users: users}
}

// Authenticate verifies the JWT and adds the caller's identity to the request context
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := m.Identify(r)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, ErrInactiveUser) {
				status = http.StatusForbidden
			} else if !errors.Is(err, ErrMissingToken) && !errors.Is(err, ErrInvalidToken) {
				logging.Ctx(r.Context()).Error().Err(err).Msg("user status lookup failed")
				status = http.StatusInternalServerError
			}
			utils.RespondWithError(w, status, err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireAdmin rejects callers without the admin role. Must run after Authenticate.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok || !id.IsAdmin() {
			utils.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Identify resolves the caller of r.
func (m *Middleware) Identify(r *http.Request) (*Identity, error) {
	token := extractToken(r)
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := utils.ValidateJWT(token, m.secret)
	if err != nil || claims.Type != "access" {
		return nil, ErrInvalidToken
	}

	if m.users != nil {
		active, err := m.users.IsActive(r.Context(), claims.UserID)
		if err != nil {
			return nil, err
		}
		if !active {
			return nil, ErrInactiveUser
		}
	}

	return &Identity{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}

// extractToken reads a bearer token, falling back to the token query
// parameter since browsers cannot set headers on websocket upgrades.
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return r.URL.Query().Get("token")
}
