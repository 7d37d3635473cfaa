// Package kv provides the string key-value persistence used for favorites.
package kv

import "context"

// Store is a string key-value store.
type Store interface {
	// Get returns the value stored under key. found is false when the key was never set.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// Backend names accepted in configuration.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)
