package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func newTestCodec(t *testing.T, secret string, clock *fakeClock) *Codec {
	t.Helper()
	keys, err := NewKeyRing(secret)
	require.NoError(t, err)
	return NewCodec(keys, WithClock(clock.Now))
}

func claimsAt(now time.Time, ttl time.Duration) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: "admin@kazale.com",
		Role:  string(domain.RoleAdmin),
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := newTestCodec(t, "secret", clock)

	raw, err := c.Encode(claimsAt(clock.t, time.Hour))
	require.NoError(t, err)

	got, err := c.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "7", got.Subject)
	assert.Equal(t, string(domain.RoleAdmin), got.Role)
	assert.Equal(t, "admin@kazale.com", got.Email)
}

func TestCodec_Expired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := newTestCodec(t, "secret", clock)

	raw, err := c.Encode(claimsAt(clock.t, time.Minute))
	require.NoError(t, err)

	clock.t = clock.t.Add(2 * time.Minute)
	_, err = c.Decode(raw)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)
}

func TestCodec_ExpiredWinsOverBadSignature(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	signer := newTestCodec(t, "other-secret", clock)
	verifier := newTestCodec(t, "secret", clock)

	raw, err := signer.Encode(claimsAt(clock.t, time.Minute))
	require.NoError(t, err)

	clock.t = clock.t.Add(time.Hour)
	_, err = verifier.Decode(raw)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)
}

func TestCodec_Leeway(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	keys, err := NewKeyRing("secret")
	require.NoError(t, err)
	c := NewCodec(keys, WithClock(clock.Now), WithLeeway(30*time.Second))

	raw, err := c.Encode(claimsAt(clock.t, time.Minute))
	require.NoError(t, err)

	clock.t = clock.t.Add(time.Minute + 10*time.Second)
	_, err = c.Decode(raw)
	assert.NoError(t, err)

	clock.t = clock.t.Add(time.Minute)
	_, err = c.Decode(raw)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)
}

func TestCodec_TamperedSignature(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := newTestCodec(t, "secret", clock)

	raw, err := c.Encode(claimsAt(clock.t, time.Hour))
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = c.Decode(tampered)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestCodec_WrongSecret(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	raw, err := newTestCodec(t, "attacker", clock).Encode(claimsAt(clock.t, time.Hour))
	require.NoError(t, err)

	_, err = newTestCodec(t, "secret", clock).Decode(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestCodec_RejectsOtherAlgorithms(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := newTestCodec(t, "secret", clock)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claimsAt(clock.t, time.Hour))
	raw, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = c.Decode(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestCodec_Malformed(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := newTestCodec(t, "secret", clock)

	for _, raw := range []string{"", "   ", "not-a-token", "a.b", "a.b.c"} {
		_, err := c.Decode(raw)
		assert.ErrorIs(t, err, domain.ErrMalformedToken, "input %q", raw)
	}
}

func TestCodec_MissingSubjectIsMalformed(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := newTestCodec(t, "secret", clock)

	claims := claimsAt(clock.t, time.Hour)
	claims.Subject = ""
	raw, err := c.Encode(claims)
	require.NoError(t, err)

	_, err = c.Decode(raw)
	assert.ErrorIs(t, err, domain.ErrMalformedToken)
}

func TestKeyRing_Rotate(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	keys, err := NewKeyRing("v1")
	require.NoError(t, err)
	c := NewCodec(keys, WithClock(clock.Now))

	old, err := c.Encode(claimsAt(clock.t, time.Hour))
	require.NoError(t, err)

	require.NoError(t, keys.Rotate("v2"))
	fresh, err := c.Encode(claimsAt(clock.t, time.Hour))
	require.NoError(t, err)

	_, err = c.Decode(old)
	assert.NoError(t, err, "token signed before rotation must still verify")
	_, err = c.Decode(fresh)
	assert.NoError(t, err)

	require.NoError(t, keys.Rotate("v3"))
	require.NoError(t, keys.Rotate("v4"))
	_, err = c.Decode(old)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature, "v1 fell off the retired list")
}

func TestKeyRing_EmptySecret(t *testing.T) {
	_, err := NewKeyRing("")
	assert.ErrorIs(t, err, ErrEmptySecret)

	keys, err := NewKeyRing("v1")
	require.NoError(t, err)
	assert.ErrorIs(t, keys.Rotate(""), ErrEmptySecret)
}
