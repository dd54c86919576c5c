// Package session holds the two client-side session artifacts: the bearer
// credential gating the admin views and the identifier correlating one chat
// conversation.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rexlx/clinicdesk/internal/store"
)

// nowFunc is swapped out by tests.
var nowFunc = time.Now

// TokenKey is the storage key the bearer credential lives under.
const TokenKey = "admin_token"

// TokenStore persists the bearer credential. A view renders protected
// content if and only if Get reports a token present.
type TokenStore struct {
	store store.Store
}

func NewTokenStore(s store.Store) *TokenStore {
	return &TokenStore{store: s}
}

// Get returns the persisted credential. A token whose JWT expiry has passed
// is reported absent and removed, so an expired session logs itself out the
// next time anything consults the store.
func (t *TokenStore) Get() (string, bool) {
	token, ok := t.store.Get(TokenKey)
	if !ok || token == "" {
		return "", false
	}
	if tokenExpired(token) {
		_ = t.store.Delete(TokenKey)
		return "", false
	}
	return token, true
}

// Set persists the credential, making protected views available.
func (t *TokenStore) Set(token string) error {
	return t.store.Set(TokenKey, token)
}

// Clear removes the credential. Safe to call when none exists.
func (t *TokenStore) Clear() error {
	return t.store.Delete(TokenKey)
}

// tokenExpired inspects a JWT's exp claim without verifying the signature.
// The client holds no signing key; the server stays the authority and this
// check only decides whether presenting the token is pointless. Opaque
// (non-JWT) tokens and tokens without an exp claim never expire here.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(nowFunc())
}
