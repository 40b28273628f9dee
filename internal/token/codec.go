// Package token mints and verifies the HS256-signed session tokens issued at
// login. Verification checks the signature only; expiry is a policy the
// caller enforces, so an expired token can still be decoded to discover why
// it is stale before being discarded.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoSecret means no signing secret is configured. This is a
	// deployment error: the server must refuse to serve protected routes.
	ErrNoSecret = errors.New("token: signing secret not configured")
	// ErrInvalidSignature means the token parsed but its signature does not
	// verify against the current secret. The payload is untrusted.
	ErrInvalidSignature = errors.New("token: invalid signature")
	// ErrMalformed means the token could not be parsed at all.
	ErrMalformed = errors.New("token: malformed")
)

// Claims is the payload embedded in a session token. Subject carries the
// account ID; Email and Name are display fields copied from the credential.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Expired reports whether the claims' expiry has passed as of now.
// Claims without an expiry are treated as expired.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !c.ExpiresAt.Time.After(now)
}

// Codec signs and verifies session tokens with a server-held secret.
type Codec struct {
	secret []byte
}

// New returns a Codec for the given secret, or ErrNoSecret when it is empty.
func New(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Mint signs claims with a fresh issued-at and an expiry of now + ttl.
func (c *Codec) Mint(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify decodes a token and checks its signature. It does not enforce
// expiry — compare Claims.Expired separately where freshness matters.
func (c *Codec) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	_, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		default:
			// Signature mismatch, rejected signing method, or anything
			// else that leaves the payload unverified.
			return nil, ErrInvalidSignature
		}
	}

	return claims, nil
}

// DecodeUnverified parses claims without checking the signature. Intended for
// the client side, which holds no secret and only needs a local, network-free
// read of its own token (identity display, expiry checks).
func DecodeUnverified(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, ErrMalformed
	}
	return claims, nil
}
