// Package auth provides password hashing and the stateless session token
// lifecycle.
//
// # Passwords
//
// Passwords are hashed with bcrypt. The salt and cost parameters are
// embedded in the hash string, so verification needs nothing beyond the
// stored hash:
//
//	hash, err := auth.HashPassword("s3cret")
//	ok, err := auth.VerifyPassword("s3cret", hash)
//
// # Session tokens
//
// Sessions are HS256-signed JWTs carrying {email, iat, exp}. Nothing is
// stored server-side: a token is valid iff its signature verifies and it
// has not expired. Rotating the signing secret invalidates every
// outstanding token.
//
//	tm := auth.NewTokenManager(cfg)
//	token, _ := tm.Issue("a@x.com")
//	claims, err := tm.Verify(token)
//
// The token travels in an HttpOnly cookie; see TokenManager.AttachCookie.
package auth
