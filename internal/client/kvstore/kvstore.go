// Package kvstore persists the shopper client's state as whole JSON blobs
// under fixed keys.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Keys of the persisted records.
const (
	KeySession  = "session"
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
)

// Backends selectable through configuration.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

var (
	ErrNotFound   = errors.New("kvstore: key not found")
	ErrInvalidKey = errors.New("kvstore: invalid key")
)

// Store is a blob store. Set replaces the whole value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
