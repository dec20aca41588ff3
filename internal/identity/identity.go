// Package identity carries the caller resolved by the upstream identity
// provider. The provider authenticates the user and forwards the result in
// request headers; this service only trusts and routes on them.
package identity

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/animalrescue/rescue-connect/internal/httpx"
)

type Role string

const (
	RoleUser     Role = "user"
	RoleNGO      Role = "ngo"
	RoleHospital Role = "hospital"
)

const (
	HeaderUserID = "X-User-Id"
	HeaderEmail  = "X-User-Email"
	HeaderRole   = "X-User-Role"
)

type Identity struct {
	UserID string
	Email  string
	Role   Role
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

func ParseRole(s string) Role {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleNGO, RoleHospital:
		return r
	default:
		return RoleUser
	}
}

// Middleware stores the forwarded identity in the request context.
// Requests without a user id pass through anonymous.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if uid == "" {
			next.ServeHTTP(w, r)
			return
		}
		id := Identity{
			UserID: uid,
			Email:  strings.TrimSpace(r.Header.Get(HeaderEmail)),
			Role:   ParseRole(r.Header.Get(HeaderRole)),
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireRole rejects anonymous callers with 401 and callers outside roles
// with 403. With no roles every identified caller passes.
func RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := FromContext(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if len(roles) > 0 && !slices.Contains(roles, id.Role) {
				httpx.WriteError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
