package token

import (
	"errors"
	"sync/atomic"

	"github.com/golang-jwt/jwt/v5"
)

// maxRetired bounds how many rotated-out secrets still verify tokens.
const maxRetired = 2

var ErrEmptySecret = errors.New("token: signing secret must not be empty")

type keySet struct {
	current []byte
	retired [][]byte
}

// KeyRing holds the process-wide signing secret. Reads are lock-free; Rotate
// swaps the whole set atomically so in-flight validations see either the old
// or the new set, never a mix.
type KeyRing struct {
	set atomic.Pointer[keySet]
}

// NewKeyRing builds a ring signing with current and still accepting retired.
func NewKeyRing(current string, retired ...string) (*KeyRing, error) {
	if current == "" {
		return nil, ErrEmptySecret
	}
	ks := &keySet{current: []byte(current)}
	for _, r := range retired {
		if r != "" && len(ks.retired) < maxRetired {
			ks.retired = append(ks.retired, []byte(r))
		}
	}
	k := &KeyRing{}
	k.set.Store(ks)
	return k, nil
}

// Rotate makes secret the signing key. The previous signing key keeps
// verifying tokens until it falls off the retired list.
func (k *KeyRing) Rotate(secret string) error {
	if secret == "" {
		return ErrEmptySecret
	}
	for {
		old := k.set.Load()
		if string(old.current) == secret {
			return nil
		}
		next := &keySet{current: []byte(secret)}
		next.retired = append(next.retired, old.current)
		for _, r := range old.retired {
			if len(next.retired) == maxRetired {
				break
			}
			next.retired = append(next.retired, r)
		}
		if k.set.CompareAndSwap(old, next) {
			return nil
		}
	}
}

func (k *KeyRing) signingKey() []byte {
	return k.set.Load().current
}

func (k *KeyRing) verificationKeys() jwt.VerificationKeySet {
	ks := k.set.Load()
	keys := make([]jwt.VerificationKey, 0, 1+len(ks.retired))
	keys = append(keys, ks.current)
	for _, r := range ks.retired {
		keys = append(keys, r)
	}
	return jwt.VerificationKeySet{Keys: keys}
}
