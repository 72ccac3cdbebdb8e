// Package store implements a shared key-value store visible to several
// drawing contexts. Each Store value represents one context. Writes fully
// overwrite a key and are announced to every other context subscribed to
// that key, never to the writer itself. Concurrent writers resolve as
// last write wins.
package store

import (
	"context"

	"github.com/pkg/errors"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Change announces that Key now holds Value. Origin identifies the writer.
type Change struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Origin string `json:"origin"`
}

// Store is one context's handle on the shared key-value store.
type Store interface {
	// Origin returns the identifier of this context.
	Origin() string

	// Get returns the value stored under key. ok is false if the key
	// holds no value.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set overwrites key with value and notifies other contexts.
	Set(ctx context.Context, key, value string) error

	// Subscribe returns a channel receiving changes to key made by other
	// contexts. The channel is closed when ctx is done or the store is closed.
	Subscribe(ctx context.Context, key string) (<-chan Change, error)

	// Close releases the store's resources and ends all subscriptions.
	Close() error
}
