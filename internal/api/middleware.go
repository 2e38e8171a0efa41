// internal/api/middleware.go
package api

import (
	"net/http"
	"strconv"

	"stampmarket/internal/domain"
)

// RequireIdentity reads the identity headers set by the upstream auth
// gateway (X-User-ID, X-User-Role, X-User-Active) and injects a
// domain.Identity into the request context. The core never authenticates;
// it trusts the gateway and only authorizes.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
		if err != nil || userID <= 0 {
			writeJSONError(w, http.StatusUnauthorized, "missing or invalid identity")
			return
		}

		role := domain.Role(r.Header.Get("X-User-Role"))
		if role == "" {
			role = domain.RoleUser
		}
		if !role.Valid() {
			writeJSONError(w, http.StatusUnauthorized, "unknown role")
			return
		}

		if r.Header.Get("X-User-Active") == "false" {
			writeJSONError(w, http.StatusForbidden, "account is inactive")
			return
		}

		identity := domain.Identity{UserID: userID, Role: role, Active: true}
		next.ServeHTTP(w, r.WithContext(domain.ContextWithIdentity(r.Context(), identity)))
	})
}

// RequireAdmin rejects non-admin callers. Must run after RequireIdentity.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := domain.IdentityFromContext(r.Context())
		if !ok || !identity.Role.IsAdmin() {
			writeJSONError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
