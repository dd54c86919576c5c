// Package store provides the persistent key-value storage the clinic
// clients keep their session artifacts in. It is the desktop analog of the
// browser localStorage the backend's web clients use: one opaque string per
// key, read at startup and whenever a relevant operation runs.
package store

// Store persists opaque string values under fixed keys.
type Store interface {
	// Get returns the value for key, and whether one exists.
	Get(key string) (string, bool)
	// Set persists value under key, replacing any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
