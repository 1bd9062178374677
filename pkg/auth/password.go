package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used for new hashes. bcrypt embeds
// the cost in the hash string, so it can be raised later without breaking
// verification of existing hashes.
const DefaultBcryptCost = bcrypt.DefaultCost

// HashPassword hashes a plaintext password with bcrypt. A fresh random
// salt is generated on every call, so hashing the same password twice
// yields different strings.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), DefaultBcryptCost)
	if err != nil {
		// bcrypt only fails here on bad cost or entropy exhaustion.
		return "", fmt.Errorf("%w: bcrypt hash: %v", ErrCrypto, err)
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against a stored bcrypt hash.
// The salt and parameters come out of the hash string itself, and the
// comparison is constant-time within bcrypt.
//
// A mismatch and a malformed hash both return (false, nil): neither is an
// error a caller could act on, and the login path must not distinguish
// them. Unexpected primitive failures return ErrCrypto.
func VerifyPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	case errors.Is(err, bcrypt.ErrHashTooShort):
		return false, nil
	default:
		var versionErr bcrypt.HashVersionTooNewError
		var prefixErr bcrypt.InvalidHashPrefixError
		var costErr bcrypt.InvalidCostError
		if errors.As(err, &versionErr) || errors.As(err, &prefixErr) || errors.As(err, &costErr) {
			// Garbage in the password column, not a crypto fault.
			return false, nil
		}
		return false, fmt.Errorf("%w: bcrypt compare: %v", ErrCrypto, err)
	}
}
