package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hendryprasetyo/storefront/app/models"
	"github.com/hendryprasetyo/storefront/app/repositories"
	"github.com/hendryprasetyo/storefront/pkg/auth"
	"github.com/hendryprasetyo/storefront/pkg/response"
)

// userKey is the unexported context key holding the authenticated user.
type userKey struct{}

// CurrentUser returns the user attached by Authenticate, if any.
func CurrentUser(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey{}).(models.User)
	return u, ok
}

// WithUser attaches a user to ctx. Exported for tests that exercise
// handlers without the full middleware chain.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// Authenticate validates the bearer token, re-fetches the user document,
// and attaches it to the request context. 401 on a missing, malformed,
// expired, or orphaned token.
func Authenticate(users repositories.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

			if token == "" || token == r.Header.Get("Authorization") {
				response.Unauthorized(w, "Not authorized to access this route")
				return
			}

			claims, err := auth.ValidateToken(token)
			if err != nil {
				response.Unauthorized(w, "Not authorized to access this route")
				return
			}

			id, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				response.Unauthorized(w, "Not authorized to access this route")
				return
			}

			user, err := users.FindByID(r.Context(), id)
			if err != nil {
				// Token is valid but the account is gone.
				response.Unauthorized(w, "No user found with this id")
				return
			}

			ctx := WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route on the admin flag. Compose after
// Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok || !user.IsAdmin {
			response.Forbidden(w, "Not authorized as an admin")
			return
		}
		next.ServeHTTP(w, r)
	})
}
