// Package service implements the session lifecycle controller.
package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/soluna-app/soluna/internal/adapter/llm"
	"github.com/soluna-app/soluna/internal/config"
	"github.com/soluna-app/soluna/internal/domain"
	"github.com/soluna-app/soluna/internal/insight"
	"github.com/soluna-app/soluna/internal/kv"
	"github.com/soluna-app/soluna/internal/policy"
	"github.com/soluna-app/soluna/internal/store"
)

// Persisted key-value keys, namespaced per identity by the scoped adapter.
const (
	keyVideoEnabled = "video_enabled"
	keyScene        = "scene"
	keyLimits       = "limits"
	keySession      = "active_session"
	keyBuffer       = "message_buffer"
	keyInsights     = "insight_cards"
	keyArchive      = "archived_sessions"
)

// Clock abstracts wall-clock time so lifecycle decisions are testable.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Notifier fans session events out to live listeners. Implementations must
// not block.
type Notifier interface {
	Broadcast(sessionID string, payload []byte)
}

// StillProvider captures a still frame for the active scene. Best-effort:
// failures are tolerated and yield no still.
type StillProvider interface {
	Capture(ctx context.Context, scene domain.SceneType) (string, error)
}

// Service orchestrates session lifecycle, gating, persistence, and insight
// generation. State-mutating operations are serialized by mu; remote calls
// happen outside the lock and are reconciled against the session generation.
type Service struct {
	store    store.Store
	kvs      *kv.Scoped
	chat     llm.ChatClient
	insights *insight.Generator
	gate     *policy.Engine
	config   *config.Config

	clock    Clock
	stills   StillProvider
	notifier Notifier

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates the controller.
func New(db store.Store, kvs *kv.Scoped, chat llm.ChatClient, gen *insight.Generator, gate *policy.Engine, cfg *config.Config) *Service {
	return &Service{
		store:    db,
		kvs:      kvs,
		chat:     chat,
		insights: gen,
		gate:     gate,
		config:   cfg,
		clock:    realClock{},
		stills:   SceneStillProvider{Delay: cfg.StillCaptureDelay},
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithClock replaces the clock. For tests.
func (s *Service) WithClock(c Clock) *Service {
	s.clock = c
	return s
}

// WithRand replaces the random source. For tests.
func (s *Service) WithRand(rng *rand.Rand) *Service {
	s.rng = rng
	return s
}

// WithNotifier attaches a live event notifier.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// WithStillProvider replaces the still capture capability.
func (s *Service) WithStillProvider(p StillProvider) *Service {
	s.stills = p
	return s
}

func (s *Service) broadcast(sessionID string, payload []byte) {
	if s.notifier != nil {
		s.notifier.Broadcast(sessionID, payload)
	}
}

// SceneStillProvider resolves stills from the static scene catalog after a
// fixed readiness delay.
type SceneStillProvider struct {
	Delay time.Duration
}

// Capture returns the scene's still URL. An unknown scene yields an empty
// URL with no error; context cancellation during the delay aborts.
func (p SceneStillProvider) Capture(ctx context.Context, scene domain.SceneType) (string, error) {
	if p.Delay > 0 {
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return domain.SceneStills[scene], nil
}
