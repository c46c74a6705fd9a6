// Package token encodes and decodes the signed claim sets used as bearer tokens.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
)

// Claims is the only claims shape this service signs.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Codec signs claims with HS256 and verifies them against a KeyRing.
type Codec struct {
	keys   *KeyRing
	leeway time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

type Option func(*Codec)

// WithLeeway tolerates clock skew when checking expiry. Zero by default.
func WithLeeway(d time.Duration) Option {
	return func(c *Codec) { c.leeway = d }
}

// WithClock overrides the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

func NewCodec(keys *KeyRing, opts ...Option) *Codec {
	c := &Codec{keys: keys, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	return c
}

// Now exposes the codec clock so callers compute timestamps consistently.
func (c *Codec) Now() time.Time {
	return c.now()
}

// Encode signs claims with the current key.
func (c *Codec) Encode(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.keys.signingKey())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode parses and verifies raw. Expiry is checked before the signature so an
// expired token reports domain.ErrExpiredToken whatever its signature.
func (c *Codec) Decode(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.ErrMalformedToken
	}

	var unverified Claims
	if _, _, err := c.parser.ParseUnverified(raw, &unverified); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}
	if unverified.ExpiresAt == nil || unverified.Subject == "" {
		return nil, fmt.Errorf("%w: missing exp or sub", domain.ErrMalformedToken)
	}
	if c.now().After(unverified.ExpiresAt.Add(c.leeway)) {
		return nil, domain.ErrExpiredToken
	}

	var claims Claims
	_, err := c.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return c.keys.verificationKeys(), nil
	})
	switch {
	case err == nil:
		return &claims, nil
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	default:
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
}
