package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dddddddrrrr/campus-cart/internal/domain"
	"github.com/dddddddrrrr/campus-cart/internal/service"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityMiddleware reads the caller identity from headers set by the auth
// front (session provider). Requests without a valid user id pass through
// anonymous; handlers that need a caller reject them.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-Id")
		if _, err := uuid.Parse(userID); err != nil {
			next.ServeHTTP(w, r)
			return
		}

		role := domain.RoleOrdinary
		if r.Header.Get("X-User-Role") == string(domain.RoleAdmin) {
			role = domain.RoleAdmin
		}

		caller := service.Identity{UserID: userID, Role: role}
		ctx := context.WithValue(r.Context(), identityKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identityFromContext(ctx context.Context) (service.Identity, bool) {
	caller, ok := ctx.Value(identityKey).(service.Identity)
	return caller, ok
}

// requireIdentity writes a 401 and returns false when there is no caller.
func requireIdentity(w http.ResponseWriter, r *http.Request) (service.Identity, bool) {
	caller, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
	}
	return caller, ok
}
