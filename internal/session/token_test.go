package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rexlx/clinicdesk/internal/store"
)

func signedToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "clinic-backend",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestTokenStoreLifecycle(t *testing.T) {
	t.Parallel()

	ts := NewTokenStore(store.NewMemStore())

	if _, ok := ts.Get(); ok {
		t.Fatal("expected no token initially")
	}
	if err := ts.Set("opaque-credential"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok := ts.Get()
	if !ok || got != "opaque-credential" {
		t.Fatalf("Get = (%q, %v), want (opaque-credential, true)", got, ok)
	}
	if err := ts.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := ts.Get(); ok {
		t.Fatal("expected token gone after Clear")
	}
	// Clear with nothing stored must be safe.
	if err := ts.Clear(); err != nil {
		t.Fatalf("idempotent Clear failed: %v", err)
	}
}

func TestTokenStoreExpiredJWTReadsAbsent(t *testing.T) {
	t.Parallel()

	backing := store.NewMemStore()
	ts := NewTokenStore(backing)
	if err := ts.Set(signedToken(t, -time.Hour)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, ok := ts.Get(); ok {
		t.Fatal("expected expired token to read as absent")
	}
	// The stale credential must also have been removed.
	if _, ok := backing.Get(TokenKey); ok {
		t.Fatal("expected expired token to be cleared from storage")
	}
}

func TestTokenStoreLiveJWTReadsPresent(t *testing.T) {
	t.Parallel()

	ts := NewTokenStore(store.NewMemStore())
	tok := signedToken(t, time.Hour)
	if err := ts.Set(tok); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok := ts.Get()
	if !ok || got != tok {
		t.Fatal("expected live token to be returned unchanged")
	}
}

func TestTokenStoreOpaqueTokenNeverExpires(t *testing.T) {
	t.Parallel()

	ts := NewTokenStore(store.NewMemStore())
	if err := ts.Set("not-a-jwt"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok := ts.Get(); !ok {
		t.Fatal("opaque token should never expire client-side")
	}
}
