package auth

import "errors"

var (
	// ErrExpiredToken means the token's signature verified but its expiry
	// has passed. The HTTP layer must surface this identically to
	// ErrInvalidToken so clients learn nothing about why a session died.
	ErrExpiredToken = errors.New("token expired")

	// ErrInvalidToken means the token is malformed or its signature does
	// not verify.
	ErrInvalidToken = errors.New("invalid token")

	// ErrCrypto wraps failures of the underlying hashing or signing
	// primitives. This is an environment problem, never a business
	// outcome: callers must not treat it as "verification failed".
	ErrCrypto = errors.New("crypto failure")
)
