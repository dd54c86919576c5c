package session

import (
	"regexp"
	"testing"

	"github.com/rexlx/clinicdesk/internal/store"
)

var wantFormat = regexp.MustCompile(`^sess_[0-9a-z]{9}$`)

func TestGetOrCreateIsStable(t *testing.T) {
	t.Parallel()

	ids := NewIdentityStore(store.NewMemStore())

	first, err := ids.GetOrCreate()
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if !wantFormat.MatchString(first) {
		t.Fatalf("session id %q does not match sess_<9 base36 chars>", first)
	}

	second, err := ids.GetOrCreate()
	if err != nil {
		t.Fatalf("second GetOrCreate failed: %v", err)
	}
	if second != first {
		t.Fatalf("session id changed without reset: %q then %q", first, second)
	}
}

func TestResetMintsANewID(t *testing.T) {
	t.Parallel()

	ids := NewIdentityStore(store.NewMemStore())

	first, err := ids.GetOrCreate()
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if err := ids.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	second, err := ids.GetOrCreate()
	if err != nil {
		t.Fatalf("GetOrCreate after reset failed: %v", err)
	}
	if second == first {
		t.Fatalf("expected a fresh id after reset, got %q twice", first)
	}
	if !wantFormat.MatchString(second) {
		t.Fatalf("session id %q does not match expected format", second)
	}
}

func TestMalformedStoredIDIsReplaced(t *testing.T) {
	t.Parallel()

	backing := store.NewMemStore()
	if err := backing.Set(SessionIDKey, "definitely-not-a-session-id"); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	ids := NewIdentityStore(backing)
	got, err := ids.GetOrCreate()
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if !wantFormat.MatchString(got) {
		t.Fatalf("expected replacement id, got %q", got)
	}
}

func TestMintedIDsDiffer(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for range 64 {
		id, err := mintSessionID()
		if err != nil {
			t.Fatalf("mintSessionID failed: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate session id %q", id)
		}
		seen[id] = true
	}
}
