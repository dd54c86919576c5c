package session

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"

	"github.com/rexlx/clinicdesk/internal/store"
)

// SessionIDKey is the storage key the chat session identifier lives under.
const SessionIDKey = "chat_session_id"

const (
	sessionIDPrefix   = "sess_"
	sessionIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	sessionIDLength   = 9
)

var sessionIDPattern = regexp.MustCompile(`^sess_[0-9a-z]{9}$`)

// IdentityStore mints and persists the chat session identifier. The id is a
// correlation key grouping one conversation's exchanges, not a credential.
type IdentityStore struct {
	store store.Store
}

func NewIdentityStore(s store.Store) *IdentityStore {
	return &IdentityStore{store: s}
}

// GetOrCreate returns the persisted identifier, minting and persisting a new
// one first if none exists. Repeated calls return the identical value until
// Reset. A stored value that does not match the expected format is replaced
// rather than propagated.
func (i *IdentityStore) GetOrCreate() (string, error) {
	if id, ok := i.store.Get(SessionIDKey); ok && sessionIDPattern.MatchString(id) {
		return id, nil
	}

	id, err := mintSessionID()
	if err != nil {
		return "", err
	}
	if err := i.store.Set(SessionIDKey, id); err != nil {
		return "", fmt.Errorf("persist session id: %w", err)
	}
	return id, nil
}

// Reset deletes the identifier so the next GetOrCreate mints a fresh one.
func (i *IdentityStore) Reset() error {
	return i.store.Delete(SessionIDKey)
}

// mintSessionID produces sess_ plus nine random base36 characters. Nine
// characters is plenty of entropy for a correlation key that is not a
// security boundary.
func mintSessionID() (string, error) {
	buf := make([]byte, sessionIDLength)
	max := big.NewInt(int64(len(sessionIDAlphabet)))
	for n := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate session id: %w", err)
		}
		buf[n] = sessionIDAlphabet[idx.Int64()]
	}
	return sessionIDPrefix + string(buf), nil
}
