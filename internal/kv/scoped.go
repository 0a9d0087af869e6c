package kv

import (
	"context"

	"github.com/soluna-app/soluna/internal/domain"
)

// Scoped selects between the durable and ephemeral stores based on the
// acting identity and namespaces keys per identity. Registered accounts get
// the durable scope; guest identities live in the ephemeral scope only.
type Scoped struct {
	durable   Store
	ephemeral Store
}

// NewScoped creates a scope selector. durable may be nil, in which case every
// identity falls back to the ephemeral store.
func NewScoped(durable, ephemeral Store) *Scoped {
	return &Scoped{durable: durable, ephemeral: ephemeral}
}

// For returns the identity-namespaced store for id.
func (s *Scoped) For(id domain.Identity) Store {
	inner := s.ephemeral
	if !id.Guest && s.durable != nil {
		inner = s.durable
	}
	return &prefixed{inner: inner, prefix: "soluna:" + id.UserID + ":"}
}

type prefixed struct {
	inner  Store
	prefix string
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}
