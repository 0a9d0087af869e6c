// Package store defines the relational backend interface and its SQLite
// implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/soluna-app/soluna/internal/domain"
)

// ErrUnauthorized is returned when a completion request does not match the
// session's owning identity. Callers must not retry.
var ErrUnauthorized = errors.New("session does not belong to caller")

// Store defines the backend persistence operations.
type Store interface {
	// Session operations
	CreateChatSession(ctx context.Context, sessionID, userID string, t domain.SessionType, scene domain.SceneType, startedAt time.Time) error

	// CompleteChatSession authorizes the caller against the session owner,
	// inserts one insight row, and marks the session completed with a link to
	// the new insight. Returns the new insight id.
	CompleteChatSession(ctx context.Context, sessionID, userID, quote string, scene domain.SceneType) (string, error)

	// RecentChatSessions returns session summaries newest-first, each
	// optionally embedding its linked insight. Never returns nil.
	RecentChatSessions(ctx context.Context, userID string, limit int, sessionType *domain.SessionType) ([]domain.SessionSummary, error)

	// Maintenance
	PruneStaleSessions(ctx context.Context, cutoff time.Time) (int64, error)
	Maintain(ctx context.Context) error

	// Lifecycle
	Close() error
}
