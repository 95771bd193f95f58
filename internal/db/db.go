// Package db defines the key-value store contract used for the embedding
// cache and quiz persistence.
package db

import (
	"context"
	"time"
)

// Store is the database facade combining all sub-interfaces.
type Store interface {
	Pinger
	KVStore
	KeyScanner
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// MGet returns values in key order; missing keys yield nil entries.
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// KeyScanner iterates keys by glob pattern.
type KeyScanner interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
}
