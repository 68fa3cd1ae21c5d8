package middleware

// ContextKey is a private key type for request-context values, so keys from
// other packages cannot collide with ours.
type ContextKey string

// UserIDCtxKey holds the authenticated user's id, set by JWTAuth.
const UserIDCtxKey = ContextKey("user_id")
