package params

import (
	"errors"
	"fmt"

	"github.com/aretw0/xitem/pkg/core"
)

// ErrNilRecord is returned when Attach is given a nil record.
var ErrNilRecord = errors.New("record cannot be nil")

// userInfoOwner names the raw user info in errors.
const userInfoOwner = "user info"

// ReservedKeyError reports a custom contribution writing a reserved key.
type ReservedKeyError struct {
	Key    string
	Record string
}

func (e *ReservedKeyError) Error() string {
	return fmt.Sprintf("%s: key %q: %v", e.Record, e.Key, core.ErrReservedKey)
}

func (e *ReservedKeyError) Unwrap() error { return core.ErrReservedKey }

// KeyCollisionError reports a custom key already contributed by Other.
type KeyCollisionError struct {
	Key    string
	Record string
	Other  string
}

func (e *KeyCollisionError) Error() string {
	return fmt.Sprintf("%s: key %q already written by %s: %v", e.Record, e.Key, e.Other, core.ErrKeyCollision)
}

func (e *KeyCollisionError) Unwrap() error { return core.ErrKeyCollision }
