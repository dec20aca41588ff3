package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleNGO, ParseRole(" NGO "))
	assert.Equal(t, RoleHospital, ParseRole("hospital"))
	assert.Equal(t, RoleUser, ParseRole(""))
	assert.Equal(t, RoleUser, ParseRole("admin"))
}

func TestMiddlewareAndRequireRole(t *testing.T) {
	var seen Identity
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := Middleware(RequireRole(RoleNGO, RoleHospital)(ok))

	tests := []struct {
		name   string
		header map[string]string
		want   int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"reporter", map[string]string{HeaderUserID: "u1", HeaderRole: "user"}, http.StatusForbidden},
		{"ngo", map[string]string{HeaderUserID: "n1", HeaderRole: "ngo", HeaderEmail: "ngo@example.com"}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	assert.Equal(t, Identity{UserID: "n1", Email: "ngo@example.com", Role: RoleNGO}, seen)
}

func TestRequireRole_AnyIdentified(t *testing.T) {
	h := Middleware(RequireRole()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "u1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
