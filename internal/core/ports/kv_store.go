package ports

import "context"

// KVStore is the durable key-value substrate the persistence adapter writes
// to. Values are opaque bytes; every Set fully replaces the previous value.
type KVStore interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
