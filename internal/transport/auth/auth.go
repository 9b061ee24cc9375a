// Package auth signs and verifies bearer tokens guarding
// internal/transport's websocket endpoint, adapted from mb0-daql's
// srv/auth package (same Signer/Store interfaces and in-memory Tokens
// store, bcrypt swapped in directly rather than through a Verifier
// indirection daql no longer needs here).
package auth

import (
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// Signer signs and verifies a passphrase against an opaque token.
type Signer interface {
	Sign(pass string) (string, error)
	Verify(token, pass string) error
}

// Store persists one token per user, for the caller to hand back to a
// reconnecting client without resigning.
type Store interface {
	Save(user, token string) error
	Token(user string) (string, error)
}

// Tokens is an in-memory Store.
type Tokens struct {
	mu   sync.RWMutex
	toks map[string]string
}

func (t *Tokens) Save(user, token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.toks == nil {
		t.toks = make(map[string]string)
	}
	t.toks[user] = token
	return nil
}

func (t *Tokens) Token(user string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	token, ok := t.toks[user]
	if !ok {
		return "", errors.Errorf("no token found for user %s", user)
	}
	return token, nil
}

// Bcrypt is a Signer backed by golang.org/x/crypto/bcrypt.
type Bcrypt struct {
	Cost int
}

func (v *Bcrypt) Sign(pass string) (string, error) {
	cost := v.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	token, err := bcrypt.GenerateFromPassword([]byte(pass), cost)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return string(token), nil
}

func (v *Bcrypt) Verify(token, pass string) error {
	return bcrypt.CompareHashAndPassword([]byte(token), []byte(pass))
}
