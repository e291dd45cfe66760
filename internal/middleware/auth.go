// Package middleware provides HTTP middleware for authentication.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mendbayar/taskdesk/internal/domain"
	"github.com/mendbayar/taskdesk/internal/handler/dto"
	"github.com/mendbayar/taskdesk/internal/repository"
	"github.com/mendbayar/taskdesk/pkg/auth"
)

type contextKey string

const userContextKey contextKey = "user"

// Auth validates the bearer token on each request and injects the loaded
// user into the request context.
type Auth struct {
	tokens *auth.TokenManager
	users  *repository.UserRepository
}

// NewAuth creates an Auth middleware.
func NewAuth(tokens *auth.TokenManager, users *repository.UserRepository) *Auth {
	return &Auth{tokens: tokens, users: users}
}

// Require wraps a handler, rejecting requests without a valid token or whose
// account has been deactivated since the token was minted.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			dto.WriteDomainError(w, domain.ErrUnauthenticated)
			return
		}

		claims, err := a.tokens.Verify(token)
		if err != nil {
			dto.WriteDomainError(w, err)
			return
		}

		user, err := a.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			dto.WriteDomainError(w, domain.ErrInvalidToken)
			return
		}
		if !user.IsActive {
			dto.WriteDomainError(w, domain.ErrUnauthenticated)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	// Browsers cannot set headers on websocket upgrades; those requests
	// pass the token as a query parameter instead.
	return r.URL.Query().Get("token")
}

func withUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext returns the authenticated user, or nil outside the
// Require middleware.
func GetUserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}
