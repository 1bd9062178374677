package auth

// AuthContext is the per-request identity resolved by the access gate and
// handed to handlers through the request context.
type AuthContext struct {
	// Email is the authenticated subject from the session claims.
	Email string
	// UserID is the storage identifier for the subject.
	UserID string
	// Permissions is the user's encoded permission blob, fetched from
	// storage at gate time and passed verbatim to rbac checks.
	Permissions []byte
}
