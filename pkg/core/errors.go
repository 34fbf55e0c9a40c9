package core

import "errors"

// Common errors.
var (
	// ErrReservedKey is returned when a custom record or raw user info tries to
	// write a key inside the reserved namespace.
	ErrReservedKey = errors.New("key is inside the reserved x-extension-item namespace")

	// ErrKeyCollision is returned when two custom contributions write the same key.
	ErrKeyCollision = errors.New("key already contributed by another record")

	// ErrEmptyKey is returned for mappings containing an empty key.
	ErrEmptyKey = errors.New("mapping key cannot be empty")
)
