package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"bookstore/internal/service"
)

const sessionCookieName = "session_token"

type contextKey string

const identityKey contextKey = "identity"

// identityResolver maps a bearer token to an Identity. Satisfied by
// *service.AuthService.
type identityResolver interface {
	Resolve(ctx context.Context, token string) (service.Identity, error)
}

type AuthMiddleware struct {
	logger   *log.Logger
	resolver identityResolver
}

func NewAuthMiddleware(logger *log.Logger, resolver identityResolver) *AuthMiddleware {
	return &AuthMiddleware{logger: logger, resolver: resolver}
}

// extractToken reads the session token from the Authorization header, or
// falls back to the session cookie.
func extractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (m *AuthMiddleware) requireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.resolver.Resolve(r.Context(), extractToken(r))
		if err != nil {
			if errors.Is(err, service.ErrNotAuthenticated) {
				writeError(m.logger, w, http.StatusUnauthorized, "authentication required")
				return
			}
			m.logger.Printf("Auth middleware: %v", err)
			writeError(m.logger, w, http.StatusInternalServerError, "session lookup failed")
			return
		}
		if role != "" && identity.Role != role {
			writeError(m.logger, w, http.StatusForbidden, "insufficient permissions")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next(w, r.WithContext(ctx))
	}
}

func (m *AuthMiddleware) RequireCustomer(next http.HandlerFunc) http.HandlerFunc {
	return m.requireRole(service.RoleCustomer, next)
}

func (m *AuthMiddleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.requireRole(service.RoleAdmin, next)
}

func (m *AuthMiddleware) RequireAny(next http.HandlerFunc) http.HandlerFunc {
	return m.requireRole("", next)
}

func identityFrom(r *http.Request) service.Identity {
	identity, _ := r.Context().Value(identityKey).(service.Identity)
	return identity
}
