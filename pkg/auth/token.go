package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSecret is the fallback signing secret. Shipping with it active is
// a deployment defect; NewTokenManager logs a warning when it sees it.
const DefaultSecret = "default-secret-change-in-production"

// Config holds the process-wide session settings, resolved once at startup
// and immutable afterwards.
type Config struct {
	// Secret signs session tokens (HS256). Rotating it invalidates every
	// outstanding token; there is no multi-key grace period.
	Secret string
	// CookieName is the cookie that carries the token.
	CookieName string
	// TTL bounds both token validity and cookie max-age.
	TTL time.Duration
	// CookieSecure sets the Secure attribute; true for HTTPS deployments.
	CookieSecure bool
}

// SessionClaims is the signed assertion carried by a session token.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies stateless session tokens.
type TokenManager struct {
	config Config
	secret []byte
	// now is swappable in tests for expiry checks.
	now func() time.Time
}

// NewTokenManager creates a token manager from immutable configuration.
func NewTokenManager(cfg Config) *TokenManager {
	return &TokenManager{
		config: cfg,
		secret: []byte(cfg.Secret),
		now:    time.Now,
	}
}

// Issue builds and signs a session token for the given email. The claim
// set is {email, iat, exp = iat + TTL}.
func (tm *TokenManager) Issue(email string) (string, error) {
	now := tm.now()
	claims := SessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.config.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %v", ErrCrypto, err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a serialized token and returns
// its claims. Expired tokens return ErrExpiredToken; anything malformed or
// tampered with returns ErrInvalidToken.
func (tm *TokenManager) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)

	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AttachCookie sets the session cookie on an outgoing response. HttpOnly
// keeps it away from scripts; SameSite=Lax blocks cross-site POSTs from
// carrying it.
func (tm *TokenManager) AttachCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tm.config.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   tm.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(tm.config.TTL.Seconds()),
	})
}

// ClearCookie expires the session cookie, used by logout.
func (tm *TokenManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tm.config.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   tm.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// CookieName exposes the configured cookie name to the middleware layer.
func (tm *TokenManager) CookieName() string {
	return tm.config.CookieName
}
