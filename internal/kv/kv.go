// Package kv provides the scoped key-value persistence adapter. Values are
// opaque JSON records; read failures and corruption are treated as absence
// and never surface to callers.
package kv

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Store is a byte-oriented key-value store. Get returns (nil, nil) when the
// key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Read unmarshals the value at key into T, returning def when the key is
// absent, the read fails, or the stored value does not decode.
func Read[T any](ctx context.Context, s Store, key string, def T) T {
	b, err := s.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("kv read failed, using default")
		return def
	}
	if len(b) == 0 {
		return def
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		// Corruption is absence.
		log.Warn().Err(err).Str("key", key).Msg("kv value corrupt, using default")
		return def
	}
	return v
}

// Write marshals v and stores it at key. Failures are logged, never returned.
func Write[T any](ctx context.Context, s Store, key string, v T) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("kv marshal failed")
		return
	}
	if err := s.Set(ctx, key, b); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("kv write failed")
	}
}

// Clear removes key, ignoring errors.
func Clear(ctx context.Context, s Store, key string) {
	if err := s.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("kv delete failed")
	}
}
