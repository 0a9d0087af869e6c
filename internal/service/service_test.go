package service

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/soluna-app/soluna/internal/adapter/llm"
	"github.com/soluna-app/soluna/internal/config"
	"github.com/soluna-app/soluna/internal/domain"
	"github.com/soluna-app/soluna/internal/insight"
	"github.com/soluna-app/soluna/internal/kv"
	"github.com/soluna-app/soluna/internal/policy"
	"github.com/soluna-app/soluna/internal/store"
)

// fakeClock is a settable clock shared between the test and the service.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// morningTime is a Tuesday at 08:00 local, inside the morning window.
var morningTime = time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

func newTestService(t *testing.T) (*Service, *llm.MockClient, *fakeClock) {
	t.Helper()

	db, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	gate, err := policy.NewEngine(context.Background(), policy.DefaultGatePolicy)
	if err != nil {
		t.Fatalf("failed to build gate engine: %v", err)
	}

	mock := &llm.MockClient{}
	kvs := kv.NewScoped(kv.NewMemoryStore(), kv.NewMemoryStore())
	gen := insight.NewGenerator(mock, rand.New(rand.NewSource(1)))
	clock := newFakeClock(morningTime)

	svc := New(db, kvs, mock, gen, gate, &config.Config{}).
		WithClock(clock).
		WithRand(rand.New(rand.NewSource(1)))
	return svc, mock, clock
}

func freeUser() domain.Identity {
	return domain.Identity{UserID: "u1", Tier: domain.TierFree, Registered: true, Name: "Ada"}
}

func proUser() domain.Identity {
	return domain.Identity{UserID: "p1", Tier: domain.TierPro, Registered: true, Name: "Grace"}
}

func guestUser() domain.Identity {
	return domain.Identity{UserID: "guest_abc", Guest: true, Tier: domain.TierFree}
}

// failingStore wraps a Store and fails session completion.
type failingStore struct {
	store.Store
	completeErr error
}

func (f *failingStore) CompleteChatSession(ctx context.Context, sessionID, userID, quote string, scene domain.SceneType) (string, error) {
	return "", f.completeErr
}

// blockingChat parks Complete until released, signalling when a call starts.
type blockingChat struct {
	started chan struct{}
	release chan struct{}
}

func newBlockingChat() *blockingChat {
	return &blockingChat{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (b *blockingChat) Complete(ctx context.Context, messages []llm.ChatMessage) (string, error) {
	b.started <- struct{}{}
	<-b.release
	return "delayed reply", nil
}
