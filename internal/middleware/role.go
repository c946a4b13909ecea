package middleware

import (
	"encoding/json"
	"net/http"
)

// RequireRole enforces that the authenticated user carries one of the
// allowed roles. It must run after JWTAuth, which stores the role under
// UserRoleCtxKey.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(UserRoleCtxKey).(string)
			if !ok || !allowed[role] {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "Forbidden"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
