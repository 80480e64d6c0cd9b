package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/abhishekgaud7/PG-Backend/internal/domain"
	"github.com/abhishekgaud7/PG-Backend/internal/http/response"
	"github.com/abhishekgaud7/PG-Backend/internal/repo/postgres"
	"github.com/abhishekgaud7/PG-Backend/pkg/auth"
	"github.com/abhishekgaud7/PG-Backend/pkg/logger"
)

type ctxKey string

const ctxUser ctxKey = "user"

// Auth resolves bearer tokens to a fresh user row so role and lockout
// changes take effect immediately, not at next token issue.
type Auth struct {
	users  postgres.UserRepo
	secret string
}

func NewAuth(users postgres.UserRepo, secret string) *Auth {
	return &Auth{users: users, secret: secret}
}

// Protect rejects requests without a valid bearer token and stores the
// authenticated user on the request context.
func (a *Auth) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			response.Fail(w, http.StatusUnauthorized, "Missing or malformed authorization header")
			return
		}
		raw := strings.TrimPrefix(authz, "Bearer ")

		claims, err := auth.Parse(raw, a.secret)
		if err != nil {
			response.Error(w, r, err)
			return
		}

		user, err := a.users.FindByID(r.Context(), claims.Sub)
		if err != nil {
			response.Error(w, r, err)
			return
		}
		if user == nil {
			response.Fail(w, http.StatusUnauthorized, "Account no longer exists")
			return
		}

		ctx := context.WithValue(r.Context(), ctxUser, user)
		ctx = context.WithValue(ctx, logger.UserIDKey, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize allows only the listed roles past. Must run after Protect.
func (a *Auth) Authorize(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFrom(r.Context())
			if user == nil {
				response.Fail(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Fail(w, http.StatusForbidden, "You are not allowed to perform this action")
		})
	}
}

// UserFrom returns the authenticated user stored by Protect, or nil.
func UserFrom(ctx context.Context) *domain.User {
	v := ctx.Value(ctxUser)
	if v == nil {
		return nil
	}
	return v.(*domain.User)
}
