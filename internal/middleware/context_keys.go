package middleware

// ContextKey is a dedicated type for context keys to avoid collisions.
type ContextKey string

const (
	// UserIDCtxKey is the key under which the authenticated user id is
	// stored in the request context.
	UserIDCtxKey = ContextKey("user_id")

	// UserRoleCtxKey is the key under which the authenticated user's role
	// is stored in the request context.
	UserRoleCtxKey = ContextKey("user_role")
)
