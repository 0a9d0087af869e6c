package helpers

import (
	"testing"

	"github.com/soluna-app/soluna/internal/kv"
	"github.com/soluna-app/soluna/internal/store"
)

func NewTestSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

// NewTestKV returns a scope selector backed entirely by memory stores. The
// durable store is returned as well so tests can inspect it directly.
func NewTestKV(t *testing.T) (*kv.Scoped, *kv.MemoryStore) {
	t.Helper()

	durable := kv.NewMemoryStore()
	return kv.NewScoped(durable, kv.NewMemoryStore()), durable
}
