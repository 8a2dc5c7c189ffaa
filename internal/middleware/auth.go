package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"rental-backend/internal/auth"
	"rental-backend/internal/store"
	"rental-backend/pkg/utils"
)

type contextKey string

const UserIDKey contextKey = "user_id"
const EmailKey contextKey = "email"
const RoleKey contextKey = "role"

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	users      store.UserRepo
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, users store.UserRepo) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		users:      users,
	}
}

// tokenFromRequest prefers the session cookie and falls back to "Bearer <token>"
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(auth.CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// Authenticate is a middleware that validates the session token
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			utils.Fail(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			utils.Fail(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// Check database for current user status (for immediate permission updates)
		user, err := m.users.Get(r.Context(), claims.UserID)
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(w, http.StatusUnauthorized, "User not found")
			return
		}
		if err != nil {
			utils.Error(w, r, fmt.Errorf("load user %d: %w", claims.UserID, err))
			return
		}

		if !user.IsActive {
			utils.Fail(w, http.StatusForbidden, "Account suspended. Please contact administrator.")
			return
		}

		// Add user info to context (using database values for real-time updates)
		ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
		ctx = context.WithValue(ctx, EmailKey, user.Email)
		ctx = context.WithValue(ctx, RoleKey, user.Role)
		noteUser(ctx, user.ID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects users whose role is not listed. It must run after Authenticate.
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				utils.Fail(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			for _, allowed := range allowedRoles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			utils.Fail(w, http.StatusForbidden, "Forbidden: Insufficient permissions")
		})
	}
}

// WithUser returns ctx carrying the given identity; handler tests use it to skip token plumbing
func WithUser(ctx context.Context, userID int, email, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, EmailKey, email)
	return context.WithValue(ctx, RoleKey, role)
}

// GetUserIDFromContext extracts user ID from request context
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}

// GetEmailFromContext extracts email from request context
func GetEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}

// GetRoleFromContext extracts role from request context
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}
