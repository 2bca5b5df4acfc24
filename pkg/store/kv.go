package store

import "errors"

// ErrStorageUnavailable wraps every failure of the underlying key-value store
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrUnchanged is returned by an UpdateFunc to leave the stored value as it is
var ErrUnchanged = errors.New("value unchanged")

// UpdateFunc maps the current value of a key ("" when absent) to its new value
type UpdateFunc func(old string) (string, error)

// KV is the durable key-value persistence both repositories sit on.
// Get returns an empty string for an absent key.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
	// Update reads and rewrites key atomically, also against other processes
	// sharing the store. An fn error aborts the write and is returned,
	// except ErrUnchanged which aborts it silently.
	Update(key string, fn UpdateFunc) error
}
