// Package kv abstracts the persistent key-value capability backing the
// notification store. Values are opaque strings; serialisation is the
// caller's concern.
package kv

import "context"

// Store is a minimal get/set surface over a shared key-value backend.
// Concurrent writers race and the last write wins; no coordination is
// provided or expected.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores the value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}
