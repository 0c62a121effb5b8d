// Package storage provides durable string key-value storage for credentials
// and cached provider data. Implementations must allow a value written by one
// client instance to be observed by another, which is why the provider
// clients re-read storage at the start of every token or cache decision.
package storage

// KV is the interface for durable string key-value storage.
type KV interface {
	// Get retrieves the value for key. The second return value is false when
	// the key is absent.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(keys ...string) error
}
